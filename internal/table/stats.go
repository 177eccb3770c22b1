package table

import "github.com/mesh-intelligence/sectorboard/pkg/types"

// Derived statistics. None of these are stored; callers recompute them from
// the current rows whenever they need them.

// Count returns how many rows satisfy pred.
func Count(rows []types.Record, pred func(types.Record) bool) int {
	n := 0
	for _, r := range rows {
		if pred(r) {
			n++
		}
	}
	return n
}

// CountWhere returns how many rows carry v under key.
func CountWhere(rows []types.Record, key string, v types.Value) int {
	return Count(rows, func(r types.Record) bool { return r.Value(key).Equal(v) })
}

// Sum adds up the numeric field key over rows. Non-numeric values count as 0.
func Sum(rows []types.Record, key string) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.Value(key).Float()
	}
	return total
}

// Average returns the mean of the numeric field key, or 0 for no rows.
func Average(rows []types.Record, key string) float64 {
	if len(rows) == 0 {
		return 0
	}
	return Sum(rows, key) / float64(len(rows))
}

// Percent returns part as a whole-number percentage of whole, rounded half
// away from zero, or 0 when whole is 0.
func Percent(part, whole float64) int {
	if whole == 0 {
		return 0
	}
	p := part / whole * 100
	if p < 0 {
		return -int(-p + 0.5)
	}
	return int(p + 0.5)
}
