package bot

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("isReceiptDocument", func() {
	It("accepts images", func() {
		Expect(isReceiptDocument("image/jpeg")).To(BeTrue())
		Expect(isReceiptDocument("image/png")).To(BeTrue())
		Expect(isReceiptDocument("image/heic")).To(BeTrue())
	})

	It("accepts PDFs", func() {
		Expect(isReceiptDocument("application/pdf")).To(BeTrue())
	})

	It("rejects everything else", func() {
		Expect(isReceiptDocument("text/plain")).To(BeFalse())
		Expect(isReceiptDocument("application/zip")).To(BeFalse())
		Expect(isReceiptDocument("")).To(BeFalse())
	})
})

var _ = Describe("callback data", func() {
	It("round-trips the action and submission ID", func() {
		data := callbackData(actionConfirm, "sub-1")
		Expect(data).To(Equal("confirm:sub-1"))

		action, id, ok := parseCallbackData(data)
		Expect(ok).To(BeTrue())
		Expect(action).To(Equal(actionConfirm))
		Expect(id).To(Equal("sub-1"))
	})

	It("round-trips a cancel action", func() {
		action, id, ok := parseCallbackData(callbackData(actionCancel, "sub-2"))
		Expect(ok).To(BeTrue())
		Expect(action).To(Equal(actionCancel))
		Expect(id).To(Equal("sub-2"))
	})

	It("rejects payloads without a separator", func() {
		_, _, ok := parseCallbackData("confirm")
		Expect(ok).To(BeFalse())
	})
})
