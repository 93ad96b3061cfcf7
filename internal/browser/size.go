package browser

import (
	"math"
	"strconv"
)

var sizeUnits = [...]string{"B", "kB", "MB", "GB", "TB"}

// FormatSize renders n with 1024 based units and at most two decimals,
// e.g. 2048 -> "2 kB", 12939428 -> "12.34 MB". Anything past TB stays in TB.
func FormatSize(n int64) string {
	if n <= 0 {
		return "0 B"
	}

	// integer form of floor(log1024(n)), immune to float error at exact powers
	i := 0
	for i < len(sizeUnits)-1 && n>>(10*(i+1)) > 0 {
		i++
	}

	v := float64(n) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
