//go:build unix

package queue

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/mrdunski/subscription-updater/gomega"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FileLock", func() {
	var lockPath string

	BeforeEach(func() {
		dir, err := os.MkdirTemp("", "lock-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
		lockPath = filepath.Join(dir, "nested", "run.lock")
	})

	It("waits for the holder to release", func() {
		first := NewFileLock(lockPath)
		Expect(first.Lock(context.Background())).To(Succeed())

		acquired := make(chan error, 1)
		second := NewFileLock(lockPath)
		go func() {
			acquired <- second.Lock(context.Background())
		}()

		Consistently(acquired, 300*time.Millisecond).ShouldNot(Receive())
		Expect(first.Unlock()).To(Succeed())
		Eventually(acquired).Should(Receive(BeNil()))
		Expect(second.Unlock()).To(Succeed())
	})

	It("gives up when context ends", func() {
		first := NewFileLock(lockPath)
		Expect(first.Lock(context.Background())).To(Succeed())
		defer first.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		Expect(NewFileLock(lockPath).Lock(ctx)).To(WrapError(context.DeadlineExceeded))
	})

	It("unlocks without lock", func() {
		Expect(NewFileLock(lockPath).Unlock()).To(Succeed())
	})
})
