package parsing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("extractDate", func() {
	var (
		text        string
		currentYear int
		date        string
	)

	BeforeEach(func() {
		currentYear = 2026
	})

	JustBeforeEach(func() {
		date = extractDate(text, currentYear)
	})

	When("the text has a slash-separated Gregorian date", func() {
		BeforeEach(func() {
			text = "2026/02/08"
		})

		It("returns the date unchanged", func() {
			Expect(date).To(Equal("2026/02/08"))
		})
	})

	When("the text has an ideograph-separated Gregorian date", func() {
		BeforeEach(func() {
			text = "2026年2月8日"
		})

		It("zero-pads the month and day", func() {
			Expect(date).To(Equal("2026/02/08"))
		})
	})

	When("the text has a dash-separated Gregorian date", func() {
		BeforeEach(func() {
			text = "領収日 2026-2-8"
		})

		It("normalizes the separators", func() {
			Expect(date).To(Equal("2026/02/08"))
		})
	})

	When("the date is printed with full-width digits", func() {
		BeforeEach(func() {
			text = "２０２６年２月８日"
		})

		It("normalizes the digits", func() {
			Expect(date).To(Equal("2026/02/08"))
		})
	})

	When("a full-width era date is printed", func() {
		BeforeEach(func() {
			text = "令和８年２月８日"
		})

		It("converts the era year", func() {
			Expect(date).To(Equal("2026/02/08"))
		})
	})

	When("the Gregorian year is before 2000", func() {
		BeforeEach(func() {
			text = "1999/2/8"
		})

		It("rejects the date", func() {
			Expect(date).To(BeEmpty())
		})
	})

	When("the text has a Reiwa date with ideographs", func() {
		BeforeEach(func() {
			text = "令和8年2月8日"
		})

		It("converts to Gregorian with the 2018 offset", func() {
			Expect(date).To(Equal("2026/02/08"))
		})
	})

	When("the text has an abbreviated Reiwa date", func() {
		BeforeEach(func() {
			text = "R8.2.8"
		})

		It("converts to Gregorian", func() {
			Expect(date).To(Equal("2026/02/08"))
		})
	})

	When("the Reiwa abbreviation is full-width", func() {
		BeforeEach(func() {
			text = "Ｒ8/2/8"
		})

		It("converts to Gregorian", func() {
			Expect(date).To(Equal("2026/02/08"))
		})
	})

	When("the text has only a month and day", func() {
		BeforeEach(func() {
			text = "2/8 レシート"
		})

		It("assumes the current year", func() {
			Expect(date).To(Equal("2026/02/08"))
		})
	})

	When("the bare month/day is February 30th", func() {
		BeforeEach(func() {
			text = "2/30"
		})

		It("accepts it without per-month validation", func() {
			Expect(date).To(Equal("2026/02/30"))
		})
	})

	When("the bare month is out of range", func() {
		BeforeEach(func() {
			text = "13/8"
		})

		It("rejects the date", func() {
			Expect(date).To(BeEmpty())
		})
	})

	When("the bare day is out of range", func() {
		BeforeEach(func() {
			text = "12/32"
		})

		It("rejects the date", func() {
			Expect(date).To(BeEmpty())
		})
	})

	When("a Gregorian and a Reiwa date both appear", func() {
		BeforeEach(func() {
			text = "令和8年2月8日\n2025/12/31"
		})

		It("prefers the Gregorian tier", func() {
			Expect(date).To(Equal("2025/12/31"))
		})
	})

	When("the text has no date at all", func() {
		BeforeEach(func() {
			text = "合計 1,500円"
		})

		It("returns absent", func() {
			Expect(date).To(BeEmpty())
		})
	})
})
