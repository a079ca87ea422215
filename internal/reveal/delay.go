// Package reveal implements the typing engine: a timer-driven state machine
// that reveals a fixed target text one character at a time.
package reveal

import (
	"math"
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

const (
	// BaseDelay is the pause after every character at speed 1.
	BaseDelay = 15 * time.Millisecond
	// JitterSpan is the maximum random extra pause after non-newline characters.
	JitterSpan = 10 * time.Millisecond
	// MinSpeed floors the speed multiplier.
	MinSpeed = 0.1
	// MinDelay floors the pause between two ticks.
	MinDelay = time.Millisecond
)

// Delay returns the pause that follows revealing unit.
// jitter is a uniform sample in [0,1); newlines ignore it so blank line
// transitions never linger. Speeds below MinSpeed (including zero, negative
// and NaN) are treated as MinSpeed.
func Delay(unit string, speed, jitter float64) time.Duration {
	base := float64(BaseDelay)
	if !IsNewline(unit) {
		base += clampJitter(jitter) * float64(JitterSpan)
	}
	if math.IsNaN(speed) || speed < MinSpeed {
		speed = MinSpeed
	}
	d := time.Duration(base / speed)
	if d < MinDelay {
		return MinDelay
	}
	return d
}

// IsNewline reports whether unit ends a line.
func IsNewline(unit string) bool {
	return unit == "\n" || unit == "\r\n"
}

func clampJitter(j float64) float64 {
	switch {
	case math.IsNaN(j), j < 0:
		return 0
	case j >= 1:
		return math.Nextafter(1, 0)
	default:
		return j
	}
}

// PrepareTarget strips leading blank lines from code.
func PrepareTarget(code string) string {
	for {
		switch {
		case strings.HasPrefix(code, "\n"):
			code = code[1:]
		case strings.HasPrefix(code, "\r\n"):
			code = code[2:]
		default:
			return code
		}
	}
}

// unitEnds splits text into user-perceived characters and returns the byte
// offset just past each one. A prefix cut at any of these offsets is valid
// UTF-8 and never splits a grapheme cluster.
func unitEnds(text string) []int {
	ends := make([]int, 0, len(text))
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		_, to := g.Positions()
		ends = append(ends, to)
	}
	return ends
}
