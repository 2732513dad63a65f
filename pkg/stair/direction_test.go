package stair

import (
	"testing"

	"github.com/matzehuels/spiralstair/pkg/errors"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"cw", Clockwise, true},
		{"Clockwise", Clockwise, true},
		{" ccw ", CounterClockwise, true},
		{"counterclockwise", CounterClockwise, true},
		{"anticlockwise", CounterClockwise, true},
		{"", DirectionUnset, false},
		{"left", DirectionUnset, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDirection(tt.in)
			if tt.ok {
				if err != nil || got != tt.want {
					t.Fatalf("ParseDirection(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
				}
				return
			}
			if !errors.Is(err, errors.ErrCodeInvalidDirection) {
				t.Fatalf("ParseDirection(%q): want INVALID_DIRECTION, got %v", tt.in, err)
			}
		})
	}
}

func TestDirectionSign(t *testing.T) {
	if Clockwise.Sign() != 1 {
		t.Errorf("Clockwise.Sign() = %v", Clockwise.Sign())
	}
	if CounterClockwise.Sign() != -1 {
		t.Errorf("CounterClockwise.Sign() = %v", CounterClockwise.Sign())
	}
	if Clockwise.Short() != "cw" || CounterClockwise.Short() != "ccw" {
		t.Error("unexpected short names")
	}
}
