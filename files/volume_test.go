package files

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"
)

const testData1Hash = "05e8fdb3598f91bcc3ce41a196e587b4592c8cdfc371c217274bfda2d24b1b4e"

type fileMatcher struct {
	fh TreeHashedFile
}

func (f fileMatcher) Match(actual interface{}) (success bool, err error) {
	return f.fh.Equal(actual.(TreeHashedFile)), nil
}

func (f fileMatcher) FailureMessage(actual interface{}) (message string) {
	fileHandle := actual.(TreeHashedFile)
	return fmt.Sprintf("Expected {%s, %s} to be equal {%s, %s}", fileHandle.path, fileHandle.treeHash, f.fh.path, f.fh.treeHash)
}

func (f fileMatcher) NegatedFailureMessage(actual interface{}) (message string) {
	fileHandle := actual.(TreeHashedFile)
	return fmt.Sprintf("Expected {%s, %s} to be other than {%s, %s}", fileHandle.path, fileHandle.treeHash, f.fh.path, f.fh.treeHash)
}

func fileWith(path, hash string) types.GomegaMatcher {
	return fileMatcher{TreeHashedFile{
		path:     path,
		treeHash: hash,
	}}
}

var _ = Describe("Volume", func() {
	var testDir string
	var volume Volume

	BeforeEach(func() {
		temp, err := os.MkdirTemp(os.TempDir(), "updater-vol-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, temp)
		testDir = temp
		volume = NewVolume(testDir)
		Expect(os.MkdirAll(filepath.Join(testDir, "dir"), 0755)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(testDir, "dir", "testfile1"), []byte("test data 1"), 0644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(testDir, "empty-file"), nil, 0644)).To(Succeed())
	})

	Describe("LoadFile", func() {
		It("calculates file hash", func() {
			file, err := volume.LoadFile("dir/testfile1")
			Expect(err).NotTo(HaveOccurred())
			Expect(file).To(fileWith("dir/testfile1", testData1Hash))
		})

		It("loads file content", func() {
			file, err := volume.LoadFile("dir/testfile1")
			Expect(err).NotTo(HaveOccurred())

			content, err := file.Content()
			Expect(err).NotTo(HaveOccurred())
			defer content.Close()
			b := new(strings.Builder)
			_, err = io.Copy(b, content)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.String()).To(Equal("test data 1"))
		})

		It("fails for missing file", func() {
			_, err := volume.LoadFile("missing")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Snapshot", func() {
		It("hashes existing files and skips missing ones", func() {
			snapshot, err := volume.Snapshot("dir/testfile1", "empty-file", "missing")
			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot).To(HaveLen(2))
			Expect(snapshot.HasFile("dir/testfile1", testData1Hash)).To(BeTrue())
			Expect(snapshot).To(HaveKey("empty-file"))
		})

		It("detects modified content", func() {
			before, err := volume.Snapshot("dir/testfile1")
			Expect(err).NotTo(HaveOccurred())
			Expect(os.WriteFile(filepath.Join(testDir, "dir", "testfile1"), []byte("test data 2"), 0644)).To(Succeed())

			after, err := volume.Snapshot("dir/testfile1")
			Expect(err).NotTo(HaveOccurred())
			Expect(before.ChangedPaths(after)).To(Equal([]string{"dir/testfile1"}))
		})
	})

	Describe("WriteLines", func() {
		It("writes new file in missing dir", func() {
			Expect(volume.WriteLines("lists/blocked.txt", []string{"a", "b", "c"})).To(Succeed())

			content, err := os.ReadFile(filepath.Join(testDir, "lists", "blocked.txt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("a\nb\nc"))
		})

		It("overwrites existing content", func() {
			Expect(os.WriteFile(filepath.Join(testDir, "blocked.txt"), []byte("old\nentries\nhere\n"), 0644)).To(Succeed())

			Expect(volume.WriteLines("blocked.txt", []string{"john", "mary"})).To(Succeed())

			content, err := os.ReadFile(filepath.Join(testDir, "blocked.txt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(content)).To(Equal("john\nmary"))
		})
	})
})
