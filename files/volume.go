package files

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go/service/glacier"
	"github.com/mrdunski/subscription-updater/model"
)

// Volume gives access to files of the working tree rooted at basePath.
type Volume struct {
	os       FileAccess
	basePath string
}

func NewVolume(basePath string) Volume {
	return Volume{os: stdOSInstance, basePath: basePath}
}

func (l Volume) LoadFile(subPath string) (_ TreeHashedFile, err error) {
	file, err := l.os.Open(path.Join(l.basePath, subPath))
	if err != nil {
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	hash := glacier.ComputeHashes(file)

	if len(hash.TreeHash) == 0 {
		hash = glacier.ComputeHashes(strings.NewReader(""))
	}

	return TreeHashedFile{
		path:     subPath,
		treeHash: fmt.Sprintf("%x", hash.TreeHash),
		os:       l.os,
		basePath: l.basePath,
	}, nil
}

// Snapshot hashes every given path. Missing files are left out of the result,
// so a deleted file shows up as a change against an earlier snapshot.
func (l Volume) Snapshot(subPaths ...string) (model.HashedFiles, error) {
	result := model.HashedFiles{}
	for _, subPath := range subPaths {
		file, err := l.LoadFile(subPath)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to hash {%s}: %w", subPath, err)
		}
		result.Replace(file)
	}

	return result, nil
}

// WriteLines replaces the content of subPath with lines joined by '\n'.
func (l Volume) WriteLines(subPath string, lines []string) error {
	target := path.Join(l.basePath, subPath)
	if err := l.os.MkdirAll(path.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create dir for {%s}: %w", subPath, err)
	}

	if err := l.os.WriteFile(target, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("failed to write {%s}: %w", subPath, err)
	}

	return nil
}
