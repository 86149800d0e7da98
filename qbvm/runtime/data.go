package runtime

// DataItem is one entry of the program's DATA statements.
type DataItem struct {
	Text   string
	Quoted bool
}

// Data is the DATA/RESTORE collaborator.
type Data interface {
	Restore(pointer int)
	Read() (DataItem, bool)
}

type DataTable struct {
	items   []DataItem
	pointer int
}

func NewDataTable(items []DataItem) *DataTable {
	return &DataTable{items: items}
}

func (self *DataTable) Restore(pointer int) {
	if pointer < 0 {
		pointer = 0
	}
	self.pointer = pointer
}

func (self *DataTable) Read() (DataItem, bool) {
	if self.pointer >= len(self.items) {
		return DataItem{}, false
	}
	item := self.items[self.pointer]
	self.pointer++
	return item, true
}

func (self *DataTable) Pointer() int {
	return self.pointer
}
