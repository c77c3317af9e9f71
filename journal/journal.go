package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mrdunski/subscription-updater/model"
)

const recordVersion = 1

type record struct {
	Version int                `json:"v"`
	Commit  model.CommitRecord `json:"commit"`
}

// Journal is an append-only log of published commit records.
type Journal struct {
	filePath string
}

func Open(filePath string) Journal {
	return Journal{filePath: filePath}
}

func (j Journal) Path() string {
	return j.filePath
}

func (j Journal) Append(commit model.CommitRecord) (err error) {
	data, err := json.Marshal(record{Version: recordVersion, Commit: commit})
	if err != nil {
		return err
	}

	file, err := j.openForAppend()
	if err != nil {
		return err
	}
	defer func(file *os.File) {
		closeErr := file.Close()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}(file)

	_, err = file.Write(append(data, '\n'))
	return err
}

// Load returns all records in the order they were appended. A missing journal
// is empty.
func (j Journal) Load() (_ []model.CommitRecord, err error) {
	file, err := os.Open(j.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func(file *os.File) {
		closeErr := file.Close()
		if closeErr != nil && err == nil {
			err = closeErr
		}
	}(file)

	var result []model.CommitRecord
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		r := record{}
		if err = json.Unmarshal(scanner.Bytes(), &r); err != nil {
			return nil, fmt.Errorf("broken journal record at line %d: %w", line, err)
		}
		if r.Version != recordVersion {
			return nil, fmt.Errorf("unsupported journal record version %d at line %d", r.Version, line)
		}
		result = append(result, r.Commit)
	}

	if scanner.Err() != nil {
		return nil, scanner.Err()
	}

	return result, nil
}

func (j Journal) openForAppend() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(j.filePath), 0755); err != nil {
		return nil, err
	}

	return os.OpenFile(j.filePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0600)
}
