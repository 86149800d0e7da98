package values

import "math"

type ValueDouble struct {
	Inner float64
}

func (_ ValueDouble) Kind() ValueKind { return DoubleValueKind }

func (self ValueDouble) Number() float64 { return self.Inner }

func (self ValueDouble) Display() string {
	return formatFloat(self.Inner, 16, 64)
}

func (self ValueDouble) IsEqual(other Value) bool {
	return numericEqual(self, other)
}

func Double(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Overflow
	}
	return ValueDouble{Inner: n}
}
