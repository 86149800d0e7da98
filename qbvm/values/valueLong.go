package values

import (
	"math"
	"strconv"
)

type ValueLong struct {
	Inner int32
}

func (_ ValueLong) Kind() ValueKind { return LongValueKind }

func (self ValueLong) Number() float64 { return float64(self.Inner) }

func (self ValueLong) Display() string {
	return strconv.FormatInt(int64(self.Inner), 10)
}

func (self ValueLong) IsEqual(other Value) bool {
	return numericEqual(self, other)
}

// Long rounds half to even, then checks the 32-bit signed range.
func Long(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Overflow
	}
	n = math.RoundToEven(n)
	if n < math.MinInt32 || n > math.MaxInt32 {
		return Overflow
	}
	return ValueLong{Inner: int32(n)}
}
