// Package clip defines the clip descriptors that make up a reel and the boundary
// validation they must pass before they reach the timeline builder.
package clip

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidRange is returned for a clip whose end does not come after its start.
	ErrInvalidRange = errors.New("clip end must be after its start")

	// ErrNegativeStart is returned for a clip that begins before the media does.
	ErrNegativeStart = errors.New("clip start must not be negative")

	// ErrNotFinite is returned for NaN or infinite timestamps.
	ErrNotFinite = errors.New("clip timestamps must be finite")
)

// Clip is a [Start, End) range of interest within the source media, in seconds.
type Clip struct {
	Start float64 `json:"start" yaml:"start" toml:"start" jsonschema:"description=Start of the clip in seconds from the beginning of the media,minimum=0"`
	End   float64 `json:"end" yaml:"end" toml:"end" jsonschema:"description=End of the clip in seconds; must be greater than start"`
	Label string  `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty" jsonschema:"description=Human readable name shown on the scrubber"`
}

// Duration returns the length of the clip in seconds.
func (c Clip) Duration() float64 {
	return c.End - c.Start
}

// Contains reports whether t lies inside the half-open range [Start, End).
func (c Clip) Contains(t float64) bool {
	return t >= c.Start && t < c.End
}

// Validate checks the shape of a single clip.
func (c Clip) Validate() error {
	switch {
	case math.IsNaN(c.Start) || math.IsNaN(c.End) || math.IsInf(c.Start, 0) || math.IsInf(c.End, 0):
		return ErrNotFinite
	case c.Start < 0:
		return ErrNegativeStart
	case c.End <= c.Start:
		return ErrInvalidRange
	}
	return nil
}

func (c Clip) String() string {
	if c.Label == "" {
		return fmt.Sprintf("[%.2f, %.2f)", c.Start, c.End)
	}
	return fmt.Sprintf("%s [%.2f, %.2f)", c.Label, c.Start, c.End)
}

// Validate checks every clip in order and reports the first failure with its position.
func Validate(clips []Clip) error {
	for i, c := range clips {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("clip #%d %s: %w", i+1, c, err)
		}
	}
	return nil
}

// Chronological reports whether every clip starts at or after the end of the one
// before it. Playback follows list order either way, but the end-of-reel and gap
// rules assume a chronological list.
func Chronological(clips []Clip) bool {
	for i := 1; i < len(clips); i++ {
		if clips[i].Start < clips[i-1].End {
			return false
		}
	}
	return true
}
