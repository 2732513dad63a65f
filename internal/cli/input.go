package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/io"
	"github.com/matzehuels/spiralstair/pkg/layout"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/stair"
)

// inputFlags holds the stair dimensions given on the command line.
type inputFlags struct {
	file           string  // input file (TOML, YAML or JSON)
	pole           float64 // center pole diameter
	height         float64 // overall height
	outside        float64 // outside diameter
	rotation       float64 // total rotation in degrees
	direction      string  // clockwise or counterclockwise
	midLanding     int     // manual mid-landing position
	skipMidLanding bool    // build without a required mid-landing

	profile  string // profile name or file
	strategy string // riser strategy
	noCache  bool
}

// bind registers the input flags on cmd.
func (f *inputFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.file, "input", "i", "", "read input from a TOML, YAML or JSON file")
	fl.Float64Var(&f.pole, "pole", 0, "center pole diameter (in)")
	fl.Float64Var(&f.height, "height", 0, "overall height, floor to top landing (in)")
	fl.Float64Var(&f.outside, "outside", 0, "outside diameter (in)")
	fl.Float64Var(&f.rotation, "rotation", 0, "total rotation (deg)")
	fl.StringVar(&f.direction, "direction", string(stair.Clockwise), "climb direction: clockwise, counterclockwise")
	fl.IntVar(&f.midLanding, "mid-landing", 0, "place the mid-landing after this tread")
	fl.BoolVar(&f.skipMidLanding, "skip-mid-landing", false, "omit a required mid-landing")
	fl.StringVarP(&f.profile, "profile", "p", "", "code profile name or file (default from config)")
	fl.StringVar(&f.strategy, "strategy", "", "riser strategy: forward, top-clearance (default from config)")
	fl.BoolVar(&f.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("profile", completeProfiles)
	_ = cmd.RegisterFlagCompletionFunc("strategy", completeStrategies)
	_ = cmd.RegisterFlagCompletionFunc("direction",
		cobra.FixedCompletions([]string{string(stair.Clockwise), string(stair.CounterClockwise)}, cobra.ShellCompDirectiveNoFileComp))
}

// completeProfiles offers the builtin profile names; files complete as usual.
func completeProfiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	names, err := profile.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveDefault
	}
	return names, cobra.ShellCompDirectiveDefault
}

func completeStrategies(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, len(layout.Strategies))
	for i, s := range layout.Strategies {
		out[i] = string(s)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// resolve builds the input. File values come first; flags the user set
// explicitly override them.
func (f *inputFlags) resolve(cmd *cobra.Command) (stair.Input, error) {
	var in stair.Input
	if f.file != "" {
		var err error
		if in, err = io.ImportInput(f.file); err != nil {
			return stair.Input{}, err
		}
	} else {
		in.Direction = stair.Clockwise
	}

	fl := cmd.Flags()
	if fl.Changed("pole") {
		in.CenterPoleDia = f.pole
	}
	if fl.Changed("height") {
		in.OverallHeight = f.height
	}
	if fl.Changed("outside") {
		in.OutsideDia = f.outside
	}
	if fl.Changed("rotation") {
		in.RotationDeg = f.rotation
	}
	if fl.Changed("direction") {
		d, err := stair.ParseDirection(f.direction)
		if err != nil {
			return stair.Input{}, err
		}
		in.Direction = d
	}
	if fl.Changed("mid-landing") {
		idx := f.midLanding
		in.MidLandingAfterTread = &idx
	}
	if fl.Changed("skip-mid-landing") {
		in.SkipMidLanding = f.skipMidLanding
	}

	if f.file == "" {
		for _, name := range []string{"pole", "height", "outside", "rotation"} {
			if !fl.Changed(name) {
				return stair.Input{}, errors.New(errors.ErrCodeInvalidInput, "--%s is required without --input", name)
			}
		}
	}
	return in, nil
}
