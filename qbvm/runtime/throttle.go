package runtime

// Throttle counts repeated executions of wait-like statements so that only
// every n-th one actually suspends. It lives in the context so runs stay independent.
type Throttle struct {
	counters map[string]uint
}

func NewThrottle() *Throttle {
	return &Throttle{counters: make(map[string]uint)}
}

// Tick advances the counter for key and reports whether this is an n-th tick.
func (self *Throttle) Tick(key string, every uint) bool {
	if every <= 1 {
		return true
	}
	self.counters[key]++
	if self.counters[key] >= every {
		self.counters[key] = 0
		return true
	}
	return false
}

func (self *Throttle) Reset() {
	self.counters = make(map[string]uint)
}
