package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/session"
)

// sessionCommand manages the remembered design input.
func (c *CLI) sessionCommand() *cobra.Command {
	var id string

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show or forget the input remembered by design",
	}
	cmd.PersistentFlags().StringVar(&id, "session", session.DefaultID, "session ID")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the remembered input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPrefill(cmd, id, func(ctx context.Context, p *session.Prefill) error {
				w := cmd.OutOrStdout()
				s, err := p.Session(ctx)
				if err != nil {
					return err
				}
				if s == nil {
					printInfo(w, "No remembered input for session %q", p.ID())
					return nil
				}
				in := s.Input
				fmt.Fprintln(w, StyleTitle.Render("Session "+s.ID))
				printKeyValue(w, "Center pole", inches(in.CenterPoleDia))
				printKeyValue(w, "Height", inches(in.OverallHeight))
				printKeyValue(w, "Outside dia", inches(in.OutsideDia))
				printKeyValue(w, "Rotation", fmt.Sprintf("%g°", in.RotationDeg))
				printKeyValue(w, "Direction", string(in.Direction))
				if in.MidLandingAfterTread != nil {
					printKeyValue(w, "Mid-landing", fmt.Sprintf("after tread %d", *in.MidLandingAfterTread))
				}
				if in.SkipMidLanding {
					printKeyValue(w, "Mid-landing", "skipped")
				}
				if s.Profile != "" {
					printKeyValue(w, "Profile", s.Profile)
				}
				printDetail(w, "%d cycle(s), updated %s, expires %s", s.Cycles,
					s.UpdatedAt.Format(time.DateTime), s.ExpiresAt.Format(time.DateOnly))
				return nil
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget the remembered input",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withPrefill(cmd, id, func(ctx context.Context, p *session.Prefill) error {
				if err := p.Forget(ctx); err != nil {
					return err
				}
				printSuccess(cmd.OutOrStdout(), "Forgot session %q", p.ID())
				return nil
			})
		},
	}

	cmd.AddCommand(showCmd, clearCmd)
	return cmd
}

// withPrefill opens the configured session store for one command.
func (c *CLI) withPrefill(cmd *cobra.Command, id string, fn func(context.Context, *session.Prefill) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := c.newSessionStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		printInfo(cmd.OutOrStdout(), "Sessions are disabled")
		return nil
	}
	defer closeSessionStore(ctx, store)
	return fn(ctx, session.NewPrefill(store, id))
}
