package model

import (
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Trigger", func() {
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	DescribeTable("BlockedUserList", func(trigger Trigger, expected []string) {
		Expect(trigger.BlockedUserList()).To(Equal(expected))
	},
		Entry("keeps order", ManualRun(now, "a,b,c", false), []string{"a", "b", "c"}),
		Entry("trims blanks", ManualRun(now, " john , mary ", false), []string{"john", "mary"}),
		Entry("drops empty identifiers", ManualRun(now, "a,,b,", false), []string{"a", "b"}),
		Entry("empty parameter", ManualRun(now, "", false), nil),
		Entry("ignored for schedule", Trigger{Kind: Schedule, BlockedUsers: "a"}, nil),
		Entry("ignored for file change", Trigger{Kind: FileChange, BlockedUsers: "a"}, nil),
	)

	DescribeTable("Stringer", func(trigger Trigger, expected string) {
		Expect(fmt.Sprintf("%v", trigger)).To(Equal(expected))
	},
		Entry("file change", FileChanged(now, true, "main.txt"), "{file-change: [main.txt] fast=true}"),
		Entry("manual", ManualRun(now, "john", false), `{manual: blocked_users="john" fast=false}`),
		Entry("schedule", ScheduledTick(now), "{schedule: 2024-03-01T10:30:00Z}"),
	)

	It("parses known kinds", func() {
		kind, err := ParseTriggerKind("schedule")
		Expect(err).NotTo(HaveOccurred())
		Expect(kind).To(Equal(Schedule))

		_, err = ParseTriggerKind("push")
		Expect(err).To(HaveOccurred())
	})
})
