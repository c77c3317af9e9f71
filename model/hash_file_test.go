package model

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("HashedFiles", func() {
	It("should handle adding and finding files", func() {
		hf := HashedFiles{}
		hf.Replace(file{
			path: "p1",
			hash: "h1",
		})

		Expect(hf.HasFile("p1", "h1")).To(BeTrue())
		Expect(hf.HasFile("p1", "h2")).To(BeFalse())
		Expect(hf.HasFile("p2", "h1")).To(BeFalse())
	})

	Describe("ChangedPaths", func() {
		var before HashedFiles

		BeforeEach(func() {
			before = HashedFiles{}
			before.Replace(file{path: "main.txt", hash: "h1"})
			before.Replace(file{path: "users.txt", hash: "h2"})
		})

		It("finds nothing in identical snapshots", func() {
			after := HashedFiles{}
			after.Replace(file{path: "main.txt", hash: "h1"})
			after.Replace(file{path: "users.txt", hash: "h2"})

			Expect(before.ChangedPaths(after)).To(BeEmpty())
		})

		It("reports modified, added and removed paths sorted", func() {
			after := HashedFiles{}
			after.Replace(file{path: "main.txt", hash: "h3"})
			after.Replace(file{path: "blocked_users.txt", hash: "h4"})

			Expect(before.ChangedPaths(after)).To(Equal([]string{"blocked_users.txt", "main.txt", "users.txt"}))
		})
	})
})
