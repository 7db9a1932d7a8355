package parsing

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("extractPurpose", func() {
	var (
		text    string
		purpose string
	)

	JustBeforeEach(func() {
		purpose = extractPurpose(text)
	})

	When("the first line is a merchant name", func() {
		BeforeEach(func() {
			text = "スターバックス渋谷店\n2026/02/08\n合計 1,500円"
		})

		It("returns the first line", func() {
			Expect(purpose).To(Equal("スターバックス渋谷店"))
		})
	})

	When("the first line is digits and symbols only", func() {
		BeforeEach(func() {
			text = "#1234\nスターバックス渋谷店"
		})

		It("returns the first qualifying line", func() {
			Expect(purpose).To(Equal("スターバックス渋谷店"))
		})
	})

	When("the first line is a full-width receipt number", func() {
		BeforeEach(func() {
			text = "＃１２３４\nスターバックス渋谷店"
		})

		It("returns the first qualifying line", func() {
			Expect(purpose).To(Equal("スターバックス渋谷店"))
		})
	})

	When("the qualifying line is longer than fifty characters", func() {
		BeforeEach(func() {
			text = strings.Repeat("あ", 60)
		})

		It("truncates it to fifty characters", func() {
			Expect(purpose).To(Equal(strings.Repeat("あ", 50)))
		})
	})

	When("the merchant name appears after the fifth line", func() {
		BeforeEach(func() {
			text = "#1\n#2\n#3\n#4\n#5\nスターバックス渋谷店"
		})

		It("falls back to the first line", func() {
			Expect(purpose).To(Equal("#1"))
		})
	})

	When("lines need trimming and blank lines are present", func() {
		BeforeEach(func() {
			text = "\n\n  ローソン新宿三丁目店  \n\n150円\n"
		})

		It("returns the trimmed merchant line", func() {
			Expect(purpose).To(Equal("ローソン新宿三丁目店"))
		})
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("returns absent", func() {
			Expect(purpose).To(BeEmpty())
		})
	})

	When("the text is only whitespace", func() {
		BeforeEach(func() {
			text = "   \n\t\n  "
		})

		It("returns absent", func() {
			Expect(purpose).To(BeEmpty())
		})
	})
})
