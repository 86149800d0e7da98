package runtime

// Chunk is a contiguous range of statements forming a subroutine body.
type Chunk struct {
	Name   string
	Start  int
	End    int
	Params []Variable
}

type Program struct {
	Name       string
	Statements []Statement
	Chunks     []Chunk
	// Items of every DATA statement in program order.
	Data []DataItem
	// Optional listing used for diagnostics.
	Source string
}

// ChunkOf returns the chunk containing the statement index.
func (self *Program) ChunkOf(pc int) (Chunk, bool) {
	for _, chunk := range self.Chunks {
		if pc >= chunk.Start && pc < chunk.End {
			return chunk, true
		}
	}
	return Chunk{}, false
}
