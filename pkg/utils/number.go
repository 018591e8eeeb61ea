package utils

import "math"

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// SplitEvenly divides total into n integer parts whose sum is total. The
// remainder goes one unit at a time to the first parts.
func SplitEvenly(total int64, n int) []int64 {
	if n <= 0 {
		return nil
	}

	parts := make([]int64, n)
	base := total / int64(n)
	remainder := total % int64(n)

	for i := range parts {
		parts[i] = base
		if int64(i) < remainder {
			parts[i]++
		}
	}

	return parts
}
