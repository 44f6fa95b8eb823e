package format

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// HumanSize renders a byte count in base-1024 units rounded to two decimals,
// without trailing zeros: 1024 -> "1 KB", 1536 -> "1.5 KB". Zero and
// negative counts render as "0 B".
func HumanSize(b int64) string {
	if b <= 0 {
		return "0 B"
	}
	v := float64(b)
	exp := 0
	for v >= 1024 && exp < len(sizeUnits)-1 {
		v /= 1024
		exp++
	}
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[exp]
}
