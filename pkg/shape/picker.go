package shape

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how tiles are assigned to dots.
type Mode string

const (
	// ModeSingle always uses the first tile.
	ModeSingle Mode = "single"
	// ModeRange buckets brightness into low/mid/high by two thresholds.
	ModeRange Mode = "range"
	// ModeRandom picks a repeatable tile keyed by brightness.
	ModeRandom Mode = "random"
)

// None is the tile index returned when a dot should be a plain circle.
const None = -1

// ValidModes is the set of supported selection modes.
var ValidModes = map[Mode]bool{
	ModeSingle: true,
	ModeRange:  true,
	ModeRandom: true,
}

// ParseMode accepts the canonical lowercase names as well as the
// capitalized display names ("Single", "Range", "Random").
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if m == "" {
		return ModeSingle, nil
	}
	if !ValidModes[m] {
		return "", fmt.Errorf("invalid shape mode: %q (must be one of: single, range, random)", s)
	}
	return m, nil
}

// Picker chooses a tile for a dot. T1 and T2 are only used by ModeRange
// and must satisfy T1 <= T2.
type Picker struct {
	Mode Mode
	T1   float64
	T2   float64
}

// Pick returns the index of the tile to draw for a dot with normalized
// brightness n, given count available tiles. It returns None when there
// are no tiles.
func (p Picker) Pick(n float64, count int) int {
	if count <= 0 {
		return None
	}
	switch p.Mode {
	case ModeRange:
		return p.pickRange(n, count)
	case ModeRandom:
		return int(math.Floor(n*1000)) % count
	default:
		return 0
	}
}

func (p Picker) pickRange(n float64, count int) int {
	if n < p.T1 {
		return 0
	}
	if n < p.T2 && count > 1 {
		return 1
	}
	if count > 2 {
		return 2
	}
	return count - 1
}
