package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/spiralstair/pkg/designer"
	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sendForm(m FormModel, msgs ...tea.Msg) (FormModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(FormModel)
	}
	return m, cmd
}

func TestFormModelTyping(t *testing.T) {
	m := NewFormModel(designer.Prompt{})
	m, _ = sendForm(m,
		runes("6"), tea.KeyMsg{Type: tea.KeyEnter},
		runes("14x4"), tea.KeyMsg{Type: tea.KeyEnter},
		runes("60.5"), tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyEnter},
		runes("450"), tea.KeyMsg{Type: tea.KeyEnter},
		tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyEnter},
		runes("3"),
	)

	in, err := m.Input()
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if in.CenterPoleDia != 6 || in.OverallHeight != 144 || in.OutsideDia != 60 || in.RotationDeg != 450 {
		t.Errorf("dimensions = %+v", in)
	}
	if in.Direction != stair.CounterClockwise {
		t.Errorf("Direction = %q, want counterclockwise", in.Direction)
	}
	if in.MidLandingAfterTread == nil || *in.MidLandingAfterTread != 3 {
		t.Errorf("MidLandingAfterTread = %v, want 3", in.MidLandingAfterTread)
	}
	if in.SkipMidLanding {
		t.Error("SkipMidLanding should default to false")
	}
}

func TestFormModelPrefill(t *testing.T) {
	idx := 7
	m := NewFormModel(designer.Prompt{Prefill: &stair.Input{
		CenterPoleDia: 6, OverallHeight: 160, OutsideDia: 61, RotationDeg: 450,
		Direction: stair.CounterClockwise, MidLandingAfterTread: &idx, SkipMidLanding: true,
	}})

	in, err := m.Input()
	if err != nil {
		t.Fatalf("Input: %v", err)
	}
	if in.OutsideDia != 61 || in.Direction != stair.CounterClockwise || !in.SkipMidLanding {
		t.Errorf("prefilled input = %+v", in)
	}
	if in.MidLandingAfterTread == nil || *in.MidLandingAfterTread != 7 {
		t.Errorf("MidLandingAfterTread = %v, want 7", in.MidLandingAfterTread)
	}
}

func TestFormModelSubmit(t *testing.T) {
	m := NewFormModel(designer.Prompt{Prefill: &stair.Input{
		CenterPoleDia: 6, OverallHeight: 144, OutsideDia: 60, RotationDeg: 450, Direction: stair.Clockwise,
	}})

	m, cmd := sendForm(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Result == nil {
		t.Fatal("ctrl+s should submit a complete form")
	}
	if cmd == nil {
		t.Error("submit should quit the program")
	}
	if m.Result.OverallHeight != 144 {
		t.Errorf("OverallHeight = %v", m.Result.OverallHeight)
	}
}

func TestFormModelSubmitIncomplete(t *testing.T) {
	m := NewFormModel(designer.Prompt{})
	m, cmd := sendForm(m, runes("6"), tea.KeyMsg{Type: tea.KeyCtrlS})

	if m.Result != nil {
		t.Fatal("an incomplete form must not submit")
	}
	if cmd != nil {
		t.Error("an incomplete form must stay open")
	}
	if !strings.Contains(m.Err, "Overall height") {
		t.Errorf("Err = %q, want the first empty field", m.Err)
	}
	if !strings.Contains(m.View(), "Overall height") {
		t.Error("View should show the field error")
	}

	// Typing clears the error.
	m, _ = sendForm(m, runes("1"))
	if m.Err != "" {
		t.Errorf("Err = %q after typing", m.Err)
	}
}

func TestFormModelInputErrors(t *testing.T) {
	m := NewFormModel(designer.Prompt{Prefill: &stair.Input{
		CenterPoleDia: 6, OverallHeight: 144, OutsideDia: 60, RotationDeg: 450, Direction: stair.Clockwise,
	}})
	m.Fields[fMidLanding].value = "-"

	_, err := m.Input()
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestFormModelCancel(t *testing.T) {
	for _, key := range []tea.KeyMsg{{Type: tea.KeyEsc}, {Type: tea.KeyCtrlC}} {
		m, cmd := sendForm(NewFormModel(designer.Prompt{}), key)
		if !m.Cancelled || cmd == nil {
			t.Errorf("%s: Cancelled = %v, cmd = %v", key, m.Cancelled, cmd)
		}
	}
}

func TestFormModelDoesNotShareFields(t *testing.T) {
	m := NewFormModel(designer.Prompt{})
	next, _ := sendForm(m, runes("8"))

	if m.Fields[fPole].value != "" {
		t.Errorf("original form changed to %q", m.Fields[fPole].value)
	}
	if next.Fields[fPole].value != "8" {
		t.Errorf("pole = %q, want 8", next.Fields[fPole].value)
	}
}

func TestFormModelViewPoleHint(t *testing.T) {
	m := NewFormModel(designer.Prompt{Profile: profile.Profile{Name: "residential", PolePresets: []float64{4, 6}}})
	if !strings.Contains(m.View(), "Stock poles") {
		t.Error("View should list stock poles while the pole field is focused")
	}
}

func TestViolationModel(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		want designer.Disposition
	}{
		{"enter picks try again", []tea.KeyMsg{{Type: tea.KeyEnter}}, designer.DispositionTryAgain},
		{"down enter picks ignore", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, designer.DispositionIgnore},
		{"shortcut i", []tea.KeyMsg{runes("i")}, designer.DispositionIgnore},
		{"shortcut c", []tea.KeyMsg{runes("c")}, designer.DispositionCancel},
		{"esc cancels", []tea.KeyMsg{{Type: tea.KeyEsc}}, designer.DispositionCancel},
		{"cursor stops at the end", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyEnter}}, designer.DispositionCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m tea.Model = NewViolationModel(stair.Plan{}, nil)
			var cmd tea.Cmd
			for _, k := range tt.keys {
				m, cmd = m.Update(k)
			}
			if got := m.(ViolationModel).Selected; got != tt.want {
				t.Errorf("Selected = %v, want %v", got, tt.want)
			}
			if cmd == nil {
				t.Error("a choice should quit the program")
			}
		})
	}
}
