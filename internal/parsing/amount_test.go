package parsing

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("extractAmount", func() {
	var (
		text   string
		amount string
	)

	JustBeforeEach(func() {
		amount = extractAmount(text)
	})

	When("a labeled total and a larger tendered amount both appear", func() {
		BeforeEach(func() {
			text = "お預り ¥10,000\n合計 ¥1,500円"
		})

		It("returns the total", func() {
			Expect(amount).To(Equal("1500"))
		})
	})

	When("the total follows the currency symbol", func() {
		BeforeEach(func() {
			text = "¥2,300 合計"
		})

		It("returns the total", func() {
			Expect(amount).To(Equal("2300"))
		})
	})

	When("the total is labeled with a colon and no symbol", func() {
		BeforeEach(func() {
			text = "TOTAL: 4,200"
		})

		It("returns the total", func() {
			Expect(amount).To(Equal("4200"))
		})
	})

	When("the total is printed with full-width digits", func() {
		BeforeEach(func() {
			text = "合計 １５０円"
		})

		It("normalizes the digits", func() {
			Expect(amount).To(Equal("150"))
		})
	})

	When("a full-width amount carries a full-width comma", func() {
		BeforeEach(func() {
			text = "合計 １，５００円"
		})

		It("strips the separator", func() {
			Expect(amount).To(Equal("1500"))
		})
	})

	When("two labeled totals appear", func() {
		BeforeEach(func() {
			text = "合計 1,500円\n税込合計 1,650円"
		})

		It("returns the first in line order", func() {
			Expect(amount).To(Equal("1500"))
		})
	})

	When("a labeled total parses to zero", func() {
		BeforeEach(func() {
			text = "合計 0円\n小計 800円"
		})

		It("skips it and falls through to the subtotal tier", func() {
			Expect(amount).To(Equal("800"))
		})
	})

	When("only a subtotal is labeled", func() {
		BeforeEach(func() {
			text = "小計 800円"
		})

		It("returns the subtotal", func() {
			Expect(amount).To(Equal("800"))
		})
	})

	When("only bare yen-suffixed figures appear", func() {
		BeforeEach(func() {
			text = "1,200円\n300円"
		})

		It("returns the maximum", func() {
			Expect(amount).To(Equal("1200"))
		})
	})

	When("only symbol-prefixed figures appear", func() {
		BeforeEach(func() {
			text = "¥300\n￥1,800"
		})

		It("returns the maximum", func() {
			Expect(amount).To(Equal("1800"))
		})
	})

	When("yen-suffixed and symbol-prefixed figures both appear", func() {
		BeforeEach(func() {
			text = "500円\n¥9,999"
		})

		It("prefers the suffixed tier", func() {
			Expect(amount).To(Equal("500"))
		})
	})

	When("every monetary line carries an exclusion keyword", func() {
		BeforeEach(func() {
			text = "現金 ¥5,000\nクレジットカード ¥3,000\nお釣り ¥200"
		})

		It("returns absent", func() {
			Expect(amount).To(BeEmpty())
		})
	})

	When("the register metadata shares a line number format", func() {
		BeforeEach(func() {
			text = "レシートNo.1234\nTEL 03-1234-5678\n弁当 650円"
		})

		It("ignores the metadata lines", func() {
			Expect(amount).To(Equal("650"))
		})
	})

	When("the text has no monetary figures", func() {
		BeforeEach(func() {
			text = "ありがとうございました"
		})

		It("returns absent", func() {
			Expect(amount).To(BeEmpty())
		})
	})
})
