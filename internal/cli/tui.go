package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/spiralstair/pkg/compliance"
	"github.com/matzehuels/spiralstair/pkg/designer"
	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// Form styles
var (
	formSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	formNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	formDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	formErrorStyle    = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// FormModel - Interactive input form
// =============================================================================

// fieldKind selects how a form field is edited.
type fieldKind int

const (
	fieldNumber fieldKind = iota // free text, parsed as a float
	fieldIndex                   // optional free text, parsed as an int
	fieldToggle                  // two values, switched with space or arrows
)

type formField struct {
	label string
	unit  string
	kind  fieldKind
	value string
	// options are the values of a toggle field.
	options []string
}

// Field positions in the form.
const (
	fPole = iota
	fHeight
	fOutside
	fRotation
	fDirection
	fMidLanding
	fSkip
	fieldCount
)

// FormModel is the bubbletea model for entering stair dimensions.
type FormModel struct {
	Fields    []formField
	Cursor    int
	Prompt    designer.Prompt
	Result    *stair.Input
	Cancelled bool
	Err       string
}

// NewFormModel creates a form pre-filled from the prompt.
func NewFormModel(p designer.Prompt) FormModel {
	fields := make([]formField, fieldCount)
	fields[fPole] = formField{label: "Center pole", unit: "in", kind: fieldNumber}
	fields[fHeight] = formField{label: "Overall height", unit: "in", kind: fieldNumber}
	fields[fOutside] = formField{label: "Outside diameter", unit: "in", kind: fieldNumber}
	fields[fRotation] = formField{label: "Rotation", unit: "deg", kind: fieldNumber}
	fields[fDirection] = formField{label: "Direction", kind: fieldToggle,
		options: []string{string(stair.Clockwise), string(stair.CounterClockwise)}, value: string(stair.Clockwise)}
	fields[fMidLanding] = formField{label: "Mid-landing after", unit: "tread (blank = auto)", kind: fieldIndex}
	fields[fSkip] = formField{label: "Skip mid-landing", kind: fieldToggle, options: []string{"no", "yes"}, value: "no"}

	if in := p.Prefill; in != nil {
		fields[fPole].value = formatNumber(in.CenterPoleDia)
		fields[fHeight].value = formatNumber(in.OverallHeight)
		fields[fOutside].value = formatNumber(in.OutsideDia)
		fields[fRotation].value = formatNumber(in.RotationDeg)
		if in.Direction.Valid() {
			fields[fDirection].value = string(in.Direction)
		}
		if in.MidLandingAfterTread != nil {
			fields[fMidLanding].value = strconv.Itoa(*in.MidLandingAfterTread)
		}
		if in.SkipMidLanding {
			fields[fSkip].value = "yes"
		}
	}
	return FormModel{Fields: fields, Prompt: p}
}

func (m FormModel) Init() tea.Cmd {
	return nil
}

func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.Fields = slices.Clone(m.Fields)
	f := &m.Fields[m.Cursor]

	switch key.String() {
	case "ctrl+c", "esc":
		m.Cancelled = true
		return m, tea.Quit
	case "up", "shift+tab":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "tab":
		if m.Cursor < len(m.Fields)-1 {
			m.Cursor++
		}
	case "enter":
		if m.Cursor < len(m.Fields)-1 {
			m.Cursor++
			return m, nil
		}
		return m.submit()
	case "ctrl+s":
		return m.submit()
	case "left", "right", " ", "space":
		if f.kind == fieldToggle {
			f.value = toggle(f.options, f.value)
		}
	case "backspace":
		if f.kind != fieldToggle && f.value != "" {
			f.value = f.value[:len(f.value)-1]
		}
	default:
		if f.kind != fieldToggle && key.Type == tea.KeyRunes {
			for _, r := range key.Runes {
				if (r >= '0' && r <= '9') || (r == '.' && f.kind == fieldNumber) || (r == '-' && f.value == "") {
					f.value += string(r)
				}
			}
		}
	}
	m.Err = ""
	return m, nil
}

// submit parses the fields. Numbers that do not parse keep the form open;
// every other check is left to the design loop.
func (m FormModel) submit() (tea.Model, tea.Cmd) {
	in, err := m.Input()
	if err != nil {
		m.Err = errors.UserMessage(err)
		return m, nil
	}
	m.Result = &in
	return m, tea.Quit
}

// Input converts the current field values.
func (m FormModel) Input() (stair.Input, error) {
	var in stair.Input
	for _, n := range []struct {
		field int
		dst   *float64
	}{
		{fPole, &in.CenterPoleDia},
		{fHeight, &in.OverallHeight},
		{fOutside, &in.OutsideDia},
		{fRotation, &in.RotationDeg},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(m.Fields[n.field].value), 64)
		if err != nil {
			return stair.Input{}, errors.New(errors.ErrCodeInvalidDimension, "%s: enter a number", m.Fields[n.field].label)
		}
		*n.dst = v
	}
	in.Direction = stair.Direction(m.Fields[fDirection].value)
	if s := strings.TrimSpace(m.Fields[fMidLanding].value); s != "" {
		idx, err := strconv.Atoi(s)
		if err != nil {
			return stair.Input{}, errors.New(errors.ErrCodeInvalidInput, "%s: enter a whole number or leave blank", m.Fields[fMidLanding].label)
		}
		in.MidLandingAfterTread = &idx
	}
	in.SkipMidLanding = m.Fields[fSkip].value == "yes"
	return in, nil
}

func (m FormModel) View() string {
	var b strings.Builder

	title := "Spiral stair"
	if m.Prompt.Profile.Name != "" {
		title += " · " + m.Prompt.Profile.Name
	}
	if m.Prompt.Cycle > 1 {
		title += fmt.Sprintf(" · attempt %d", m.Prompt.Cycle)
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(formDimStyle.Render("↑/↓ move  ←/→ toggle  ⏎ next/submit  esc cancel"))
	b.WriteString("\n\n")

	if m.Prompt.Err != nil {
		b.WriteString(formErrorStyle.Render(iconError + " " + errors.UserMessage(m.Prompt.Err)))
		b.WriteString("\n\n")
	}
	for _, v := range m.Prompt.Violations {
		b.WriteString(formErrorStyle.Render(iconError+" "+v.Message) + "\n")
		if v.SuggestedFix != "" {
			b.WriteString(formDimStyle.Render("  "+iconArrow+" "+v.SuggestedFix) + "\n")
		}
	}
	if len(m.Prompt.Violations) > 0 {
		b.WriteString("\n")
	}

	for i, f := range m.Fields {
		cursor := "  "
		style := formNormalStyle
		if i == m.Cursor {
			cursor = "▸ "
			style = formSelectedStyle
		}
		value := f.value
		if f.kind == fieldToggle {
			value = "‹ " + value + " ›"
		} else if i == m.Cursor {
			value += "_"
		}
		line := fmt.Sprintf("%s%-18s %s", cursor, f.label, value)
		b.WriteString(style.Render(line))
		if f.unit != "" {
			b.WriteString(" " + formDimStyle.Render(f.unit))
		}
		b.WriteString("\n")
	}

	if hint := poleHint(m.Prompt.Profile); hint != "" && m.Cursor == fPole {
		b.WriteString("\n" + formDimStyle.Render(hint) + "\n")
	}
	if m.Err != "" {
		b.WriteString("\n" + formErrorStyle.Render(m.Err) + "\n")
	}
	return b.String()
}

// poleHint lists the profile's stock pole diameters.
func poleHint(p profile.Profile) string {
	if len(p.PolePresets) == 0 {
		return ""
	}
	parts := make([]string, len(p.PolePresets))
	for i, d := range p.PolePresets {
		parts[i] = formatNumber(d) + `"`
	}
	return "Stock poles: " + strings.Join(parts, ", ")
}

func toggle(options []string, current string) string {
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func formatNumber(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// =============================================================================
// ViolationModel - Disposition choice
// =============================================================================

// dispositionChoices are offered in this order.
var dispositionChoices = []struct {
	d     designer.Disposition
	label string
	key   string
}{
	{designer.DispositionTryAgain, "Try again", "t"},
	{designer.DispositionIgnore, "Ignore and build", "i"},
	{designer.DispositionCancel, "Cancel", "c"},
}

// ViolationModel is the bubbletea model for answering a violation report.
type ViolationModel struct {
	Plan       stair.Plan
	Violations []compliance.Violation
	Cursor     int
	Selected   designer.Disposition
}

// NewViolationModel creates a violation report with "Try again" selected.
func NewViolationModel(plan stair.Plan, vs []compliance.Violation) ViolationModel {
	return ViolationModel{Plan: plan, Violations: vs}
}

func (m ViolationModel) Init() tea.Cmd {
	return nil
}

func (m ViolationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "ctrl+c", "esc", "q":
		m.Selected = designer.DispositionCancel
		return m, tea.Quit
	case "up", "k", "shift+tab":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j", "tab":
		if m.Cursor < len(dispositionChoices)-1 {
			m.Cursor++
		}
	case "enter":
		m.Selected = dispositionChoices[m.Cursor].d
		return m, tea.Quit
	default:
		for _, c := range dispositionChoices {
			if key.String() == c.key {
				m.Selected = c.d
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m ViolationModel) View() string {
	var b strings.Builder

	b.WriteString(StyleWarning.Render(fmt.Sprintf("%s %s", iconWarning, violationSummary(m.Violations))))
	b.WriteString("\n")
	p := m.Plan.Parameters
	b.WriteString(formDimStyle.Render(fmt.Sprintf("  %d risers of %.2f\" · %d treads of %.2f°", p.TotalSteps, p.RiserHeight, p.NumTreads, p.TreadAngle)))
	b.WriteString("\n\n")

	for _, v := range m.Violations {
		b.WriteString(formErrorStyle.Render(iconError+" "+v.Rule.Title()) + " " + v.Message + "\n")
		if v.SuggestedFix != "" {
			b.WriteString(formDimStyle.Render("  "+iconArrow+" "+v.SuggestedFix) + "\n")
		}
	}
	b.WriteString("\n")

	for i, c := range dispositionChoices {
		line := fmt.Sprintf("  [%s] %s", c.key, c.label)
		if i == m.Cursor {
			b.WriteString(formSelectedStyle.Render("▸" + line[1:]))
		} else {
			b.WriteString(formNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// Design loop collaborators
// =============================================================================

// teaPrompter runs the form and the violation report as bubbletea programs.
// It implements designer.InputCollector and designer.ViolationPresenter.
type teaPrompter struct {
	in  io.Reader
	out io.Writer

	// last is the most recent submitted input.
	last *stair.Input
}

func (t *teaPrompter) options(ctx context.Context) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if t.in != nil {
		opts = append(opts, tea.WithInput(t.in))
	}
	if t.out != nil {
		opts = append(opts, tea.WithOutput(t.out))
	}
	return opts
}

func (t *teaPrompter) Collect(ctx context.Context, p designer.Prompt) (*stair.Input, error) {
	final, err := tea.NewProgram(NewFormModel(p), t.options(ctx)...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	m := final.(FormModel)
	if m.Cancelled {
		return nil, nil
	}
	t.last = m.Result
	return m.Result, nil
}

func (t *teaPrompter) Present(ctx context.Context, plan stair.Plan, vs []compliance.Violation) (designer.Disposition, error) {
	final, err := tea.NewProgram(NewViolationModel(plan, vs), t.options(ctx)...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return designer.DispositionNone, ctx.Err()
		}
		return designer.DispositionNone, err
	}
	return final.(ViolationModel).Selected, nil
}

var (
	_ designer.InputCollector     = (*teaPrompter)(nil)
	_ designer.ViolationPresenter = (*teaPrompter)(nil)
)
