package values

import (
	"math"
	"strconv"
)

type ValueInteger struct {
	Inner int16
}

func (_ ValueInteger) Kind() ValueKind { return IntegerValueKind }

func (self ValueInteger) Number() float64 { return float64(self.Inner) }

func (self ValueInteger) Display() string {
	return strconv.FormatInt(int64(self.Inner), 10)
}

func (self ValueInteger) IsEqual(other Value) bool {
	return numericEqual(self, other)
}

// Integer rounds half to even, then checks the 16-bit signed range.
func Integer(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Overflow
	}
	n = math.RoundToEven(n)
	if n < math.MinInt16 || n > math.MaxInt16 {
		return Overflow
	}
	return ValueInteger{Inner: int16(n)}
}
