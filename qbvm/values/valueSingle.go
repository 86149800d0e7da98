package values

import "math"

const (
	singleMax      = math.MaxFloat32
	singleDenormal = math.SmallestNonzeroFloat32
)

type ValueSingle struct {
	Inner float32
}

func (_ ValueSingle) Kind() ValueKind { return SingleValueKind }

func (self ValueSingle) Number() float64 { return float64(self.Inner) }

func (self ValueSingle) Display() string {
	return formatFloat(float64(self.Inner), 7, 32)
}

func (self ValueSingle) IsEqual(other Value) bool {
	return numericEqual(self, other)
}

// Single range-checks n and rounds it to single precision.
func Single(n float64) Value {
	if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > singleMax {
		return Overflow
	}
	if math.Abs(n) < singleDenormal {
		n = 0
	}
	return ValueSingle{Inner: float32(n)}
}
