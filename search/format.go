package search

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count with at most one decimal in binary
// units, e.g. 1536 -> "1.5 KB". Non-positive sizes render as "".
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	value := float64(bytes)
	i := 0
	for value >= 1024 && i < len(sizeUnits)-1 {
		value /= 1024
		i++
	}
	value = math.Round(value*10) / 10
	return strconv.FormatFloat(value, 'f', -1, 64) + " " + sizeUnits[i]
}
