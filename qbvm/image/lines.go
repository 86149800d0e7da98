package image

import (
	"github.com/google/btree"
)

type lineEntry struct {
	Line  int
	Index int
}

func (self lineEntry) Less(than btree.Item) bool {
	return self.Line < than.(lineEntry).Line
}

// lineIndex maps line numbers to positions, ordered by line.
type lineIndex struct {
	tree *btree.BTree
}

func newLineIndex() *lineIndex {
	return &lineIndex{tree: btree.New(4)}
}

// Insert records the first index seen for a line. It returns false if the line was already present.
func (self *lineIndex) Insert(line int, index int) bool {
	if self.tree.Has(lineEntry{Line: line}) {
		return false
	}
	self.tree.ReplaceOrInsert(lineEntry{Line: line, Index: index})
	return true
}

func (self *lineIndex) Lookup(line int) (int, bool) {
	item := self.tree.Get(lineEntry{Line: line})
	if item == nil {
		return 0, false
	}
	return item.(lineEntry).Index, true
}

// Ceiling returns the first entry at or after line.
func (self *lineIndex) Ceiling(line int) (lineEntry, bool) {
	var found lineEntry
	ok := false
	self.tree.AscendGreaterOrEqual(lineEntry{Line: line}, func(item btree.Item) bool {
		found = item.(lineEntry)
		ok = true
		return false
	})
	return found, ok
}

func (self *lineIndex) Len() int {
	return self.tree.Len()
}
