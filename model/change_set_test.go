package model

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ChangeSet", func() {
	It("is empty without paths", func() {
		changes := NewChangeSet()
		Expect(changes.Empty()).To(BeTrue())
		Expect(changes.Len()).To(Equal(0))
		Expect(changes.String()).To(Equal("{}"))
	})

	It("sorts paths without touching the input", func() {
		input := []string{"subscriptions/b.txt", "main.txt"}
		changes := NewChangeSet(input...)

		Expect(changes.Paths).To(Equal([]string{"main.txt", "subscriptions/b.txt"}))
		Expect(input[0]).To(Equal("subscriptions/b.txt"))
		Expect(changes.Empty()).To(BeFalse())
	})
})

var _ = Describe("CommitRecord", func() {
	It("formats data well", func() {
		record := CommitRecord{Hash: "0123456789abcdef", Message: "update", Paths: []string{"a"}, Pushed: true}
		Expect(fmt.Sprintf("%v", record)).To(Equal(`{01234567 "update" files=1 pushed=true}`))
	})
})
