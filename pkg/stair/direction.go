package stair

import (
	"strings"

	"github.com/matzehuels/spiralstair/pkg/errors"
)

// Direction is the explicit turning direction of the climb.
// The zero value is unset and is rejected by [Validate]; direction is never
// inferred from the sign of the rotation.
type Direction string

const (
	DirectionUnset   Direction = ""
	Clockwise        Direction = "clockwise"
	CounterClockwise Direction = "counterclockwise"
)

// Valid reports whether d is one of the two explicit directions.
func (d Direction) Valid() bool {
	return d == Clockwise || d == CounterClockwise
}

// Sign returns +1 for clockwise and -1 for counterclockwise.
func (d Direction) Sign() float64 {
	if d == CounterClockwise {
		return -1
	}
	return 1
}

// Short returns the two or three letter form used in tables and file names.
func (d Direction) Short() string {
	switch d {
	case Clockwise:
		return "cw"
	case CounterClockwise:
		return "ccw"
	}
	return "?"
}

// ParseDirection accepts "cw", "ccw", "clockwise" and "counterclockwise"
// (case-insensitive, hyphens and spaces ignored).
func ParseDirection(s string) (Direction, error) {
	norm := strings.NewReplacer("-", "", " ", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch norm {
	case "cw", "clockwise":
		return Clockwise, nil
	case "ccw", "counterclockwise", "anticlockwise":
		return CounterClockwise, nil
	}
	return DirectionUnset, errors.New(errors.ErrCodeInvalidDirection, "unknown direction %q (use cw or ccw)", s)
}
