package queue

import (
	"context"
	"sync"
	"testing"

	. "github.com/mrdunski/subscription-updater/gomega"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestQueue(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "queue")
}

type recorder struct {
	mutex  sync.Mutex
	events []string
}

func (r *recorder) add(event string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) get() []string {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return append([]string(nil), r.events...)
}

var _ = Describe("Queue", func() {
	var q *Queue
	var events *recorder
	var group string

	waiting := func(group string) func() float64 {
		return func() float64 {
			return testutil.ToFloat64(queuedJobs.WithLabelValues(group))
		}
	}

	blockingJob := func(name string, release <-chan struct{}) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			events.add(name + ":start")
			<-release
			events.add(name + ":end")
			return nil
		}
	}

	quickJob := func(name string) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			events.add(name + ":start")
			events.add(name + ":end")
			return nil
		}
	}

	BeforeEach(func() {
		q = New(8)
		events = &recorder{}
		group = Group("update-subscriptions", CurrentSpecReport().LeafNodeText)
	})

	AfterEach(func() {
		q.Close()
	})

	It("builds group from workflow and branch", func() {
		Expect(Group("update", "main")).To(Equal("update@main"))
	})

	It("returns job error", func() {
		err := q.Do(context.Background(), group, func(ctx context.Context) error {
			return context.DeadlineExceeded
		})
		Expect(err).To(WrapError(context.DeadlineExceeded))
	})

	It("never interleaves runs of one group and keeps submission order", func() {
		release := make(chan struct{})
		var wg sync.WaitGroup
		submit := func(fn func(ctx context.Context) error) {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				Expect(q.Do(context.Background(), group, fn)).To(Succeed())
			}()
		}

		submit(blockingJob("run1", release))
		Eventually(events.get).Should(Equal([]string{"run1:start"}))
		submit(quickJob("run2"))
		Eventually(waiting(group)).Should(Equal(1.0))
		submit(quickJob("run3"))
		Eventually(waiting(group)).Should(Equal(2.0))

		Consistently(events.get).Should(Equal([]string{"run1:start"}))
		close(release)
		wg.Wait()

		Expect(events.get()).To(Equal([]string{
			"run1:start", "run1:end",
			"run2:start", "run2:end",
			"run3:start", "run3:end",
		}))
	})

	It("runs different groups independently", func() {
		release := make(chan struct{})
		defer close(release)

		go func() {
			defer GinkgoRecover()
			_ = q.Do(context.Background(), group+"-a", blockingJob("a", release))
		}()
		Eventually(events.get).Should(ContainElement("a:start"))

		Expect(q.Do(context.Background(), group+"-b", quickJob("b"))).To(Succeed())
		Expect(events.get()).To(ContainElement("b:end"))
	})

	Context("with a full backlog", func() {
		var small *Queue
		var release chan struct{}
		var results chan error

		BeforeEach(func() {
			small = New(1)
			release = make(chan struct{})
			results = make(chan error, 3)

			go func() { results <- small.Do(context.Background(), group, blockingJob("a1", release)) }()
			Eventually(events.get).Should(ContainElement("a1:start"))
			go func() { results <- small.Do(context.Background(), group, quickJob("a2")) }()
			Eventually(waiting(group)).Should(Equal(1.0))
			go func() { results <- small.Do(context.Background(), group, quickJob("a3")) }()
			Eventually(waiting(group)).Should(Equal(2.0))
		})

		It("keeps other groups running", func() {
			other := make(chan error, 1)
			go func() { other <- small.Do(context.Background(), group+"-other", quickJob("b")) }()

			Eventually(other, "2s").Should(Receive(BeNil()))
			Expect(events.get()).To(ContainElement("b:end"))
			Expect(events.get()).NotTo(ContainElement("a1:end"))

			close(release)
			for i := 0; i < 3; i++ {
				Eventually(results).Should(Receive(BeNil()))
			}
			small.Close()
		})

		It("rejects waiting submitters on close and finishes queued runs", func() {
			closed := make(chan struct{})
			go func() {
				small.Close()
				close(closed)
			}()

			Eventually(results).Should(Receive(WrapError(ErrClosed)))
			Consistently(closed, "100ms").ShouldNot(BeClosed())
			close(release)
			Eventually(closed).Should(BeClosed())
			Eventually(results).Should(Receive(BeNil()))
			Eventually(results).Should(Receive(BeNil()))
			Expect(events.get()).To(ContainElements("a1:end", "a2:end"))
			Expect(events.get()).NotTo(ContainElement("a3:start"))
		})
	})

	It("skips runs cancelled while queued without touching the running one", func() {
		release := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- q.Do(context.Background(), group, blockingJob("run1", release))
		}()
		Eventually(events.get).Should(Equal([]string{"run1:start"}))

		ctx, cancel := context.WithCancel(context.Background())
		cancelled := make(chan error, 1)
		go func() {
			cancelled <- q.Do(ctx, group, quickJob("run2"))
		}()
		Eventually(waiting(group)).Should(Equal(1.0))
		cancel()

		close(release)
		Eventually(done).Should(Receive(BeNil()))
		Eventually(cancelled).Should(Receive(WrapError(context.Canceled)))
		Expect(events.get()).To(Equal([]string{"run1:start", "run1:end"}))
	})

	It("rejects runs after close", func() {
		q.Close()
		Expect(q.Do(context.Background(), group, quickJob("late"))).To(WrapError(ErrClosed))
	})
})
