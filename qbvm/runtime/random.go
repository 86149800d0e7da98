package runtime

// RandomNumbers is the legacy 24-bit linear congruential generator.
type RandomNumbers struct {
	state uint32
}

func NewRandomNumbers() *RandomNumbers {
	return &RandomNumbers{}
}

func (self *RandomNumbers) SetSeed(seed uint32) {
	self.state = seed & 0xffffff
}

// Next returns a number in [0, 1). If advance is false, the last number is repeated.
func (self *RandomNumbers) Next(advance bool) float64 {
	if advance {
		self.state = (self.state*0xfd43fd + 0xc39ec3) & 0xffffff
	}
	return float64(self.state) / 0x1000000
}
