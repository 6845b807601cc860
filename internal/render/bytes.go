package render

import (
	"fmt"
	"math"
	"strconv"
)

var units = []string{"B", "K", "M", "G", "T"}

// FormatBytes abbreviates a byte count the way tree(1) does with -h,
// e.g. 0B, 500B, 1.5K, 2K, 3.2G
func FormatBytes(bytes int64) string {
	if bytes <= 0 {
		return "0B"
	}

	value := float64(bytes)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}

	// Round half up to one decimal
	rounded := math.Floor(value*10+0.5) / 10
	return strconv.FormatFloat(rounded, 'f', -1, 64) + units[unit]
}

// FormatBytesForDisplay returns the bracketed, right-aligned size column
func FormatBytesForDisplay(bytes int64) string {
	if bytes <= 0 {
		return "[   0]"
	}
	return fmt.Sprintf("[%4s]", FormatBytes(bytes))
}
