package model

import "sort"

type HashedFile interface {
	Path() string
	Hash() string
}

// HashedFiles is a snapshot of watched files keyed by path.
type HashedFiles map[string]HashedFile

func (e HashedFiles) HasFile(path, hash string) bool {
	file, ok := e[path]
	if !ok {
		return false
	}

	return file.Hash() == hash
}

func (e HashedFiles) Replace(file HashedFile) {
	e[file.Path()] = file
}

// ChangedPaths returns sorted paths that were added, removed or modified in next.
func (e HashedFiles) ChangedPaths(next HashedFiles) []string {
	var changed []string
	for path, file := range next {
		if !e.HasFile(path, file.Hash()) {
			changed = append(changed, path)
		}
	}
	for path := range e {
		if _, ok := next[path]; !ok {
			changed = append(changed, path)
		}
	}
	sort.Strings(changed)

	return changed
}
