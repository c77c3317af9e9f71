package files

import (
	"fmt"
	"io"
	"os"
	"path"
)

type stdOS struct{}

func (f stdOS) Open(name string) (io.ReadSeekCloser, error) {
	return os.Open(name)
}

func (f stdOS) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (f stdOS) MkdirAll(name string, perm os.FileMode) error {
	return os.MkdirAll(name, perm)
}

var stdOSInstance = stdOS{}

type FileAccess interface {
	Open(name string) (io.ReadSeekCloser, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	MkdirAll(name string, perm os.FileMode) error
}

type TreeHashedFile struct {
	os       FileAccess
	basePath string
	path     string
	treeHash string
}

func (fh TreeHashedFile) Path() string {
	return fh.path
}

func (fh TreeHashedFile) Content() (io.ReadCloser, error) {
	return fh.os.Open(path.Join(fh.basePath, fh.path))
}

func (fh TreeHashedFile) Equal(other TreeHashedFile) bool {
	return fh.path == other.path && fh.treeHash == other.treeHash
}

func (fh TreeHashedFile) String() string {
	return fmt.Sprintf("{path: %s, treeHash: %s}", fh.path, fh.treeHash)
}

func (fh TreeHashedFile) Hash() string {
	return fh.treeHash
}
