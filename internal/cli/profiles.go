package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// profilesCommand lists the builtin code profiles or shows one.
func (c *CLI) profilesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "profiles [name|file]",
		Short: "List code profiles or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 1 {
				p, err := profile.Resolve(args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, p)
				}
				printProfile(cmd, p)
				return nil
			}

			all, err := profile.Builtins()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, all)
			}
			fmt.Fprintln(w, profilesTable(all, c.cfg.Profile))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

// profilesTable renders the builtin profiles; the active one is highlighted.
func profilesTable(all []profile.Profile, active string) string {
	rows := make([][]string, len(all))
	for i, p := range all {
		name := p.Name
		if p.Name == active {
			name += " *"
		}
		rows[i] = []string{name, p.CodeRef, inches(p.MaxRiser), inches(p.MinClearWidth), inches(p.MidLandingHeight), p.Description}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Profile", "Code", "Max riser", "Clear width", "Landing at", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if row >= 0 && row < len(all) && all[row].Name == active && col == 0 {
				return StyleSuccess.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}

func printProfile(cmd *cobra.Command, p profile.Profile) {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, StyleTitle.Render(p.Name))
	if p.Description != "" {
		printDetail(w, "%s", p.Description)
	}
	if p.CodeRef != "" {
		printKeyValue(w, "Code", p.CodeRef)
	}
	if len(p.Aliases) > 0 {
		printKeyValue(w, "Aliases", strings.Join(p.Aliases, ", "))
	}
	printKeyValue(w, "Max riser", inches(p.MaxRiser))
	printKeyValue(w, "Mid-landing at", "above "+inches(p.MidLandingHeight))
	printKeyValue(w, "Landing sweep", fmt.Sprintf("%.0f°", p.MidLandingSweepDeg))
	printKeyValue(w, "Clear width", "≥ "+inches(p.MinClearWidth))
	printKeyValue(w, "Handrail", inches(p.HandrailAllowance))
	printKeyValue(w, "Walkline", fmt.Sprintf("pole radius + %s, ≤ %s", inches(p.WalklineOffset), inches(p.MaxWalklineRadius)))
	printKeyValue(w, "Walkline depth", "≥ "+inches(p.MinWalklineDepth))
	printKeyValue(w, "Headroom", "≥ "+inches(p.MinHeadroom))
	if len(p.PolePresets) > 0 {
		printKeyValue(w, "Stock poles", strings.TrimPrefix(poleHint(p), "Stock poles: "))
	}
}

// schemaCommand prints the JSON Schema of the input file format.
func (c *CLI) schemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of stair input files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeJSON(cmd, stair.InputSchema())
		},
	}
}

// writeJSON prints v as indented JSON on the command's output.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
