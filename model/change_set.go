package model

import (
	"fmt"
	"sort"
)

// ChangeSet lists repository paths modified since the last commit.
type ChangeSet struct {
	Paths []string
}

func NewChangeSet(paths ...string) ChangeSet {
	if len(paths) == 0 {
		return ChangeSet{}
	}
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	return ChangeSet{Paths: sorted}
}

func (c ChangeSet) Empty() bool {
	return len(c.Paths) == 0
}

func (c ChangeSet) Len() int {
	return len(c.Paths)
}

func (c ChangeSet) String() string {
	if c.Empty() {
		return "{}"
	}
	return fmt.Sprintf("{changed: %v}", c.Paths)
}
