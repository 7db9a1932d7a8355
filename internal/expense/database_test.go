package expense

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/suiso11/kaikeisinsei/internal/parsing"
)

var _ = Describe("BoltDB", func() {
	var (
		tmpDir string
		dbPath string
		db     *BoltDB
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		dbPath = filepath.Join(tmpDir, "test.db")
		var err error
		db, err = NewBoltDB(dbPath)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if db != nil {
			db.Close()
		}
	})

	newSubmission := func(id string) *Submission {
		return &Submission{
			ID:      id,
			Status:  StatusPending,
			OCRText: "スターバックス渋谷店\n合計 1,500円",
			Suggested: parsing.Fields{
				Date:    "2026/02/08",
				Amount:  "1500",
				Purpose: "スターバックス渋谷店",
			},
			ReceiptFile: "test.jpg",
			ContentType: "image/jpeg",
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
	}

	Describe("SaveSubmission", func() {
		var (
			sub *Submission
			err error
		)

		BeforeEach(func() {
			sub = newSubmission("test-id")
		})

		JustBeforeEach(func() {
			err = db.SaveSubmission(sub)
		})

		When("saving succeeds", func() {
			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should persist the submission", func() {
				saved, getErr := db.GetSubmission("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.ID).To(Equal("test-id"))
			})

			It("should round-trip the suggested fields", func() {
				saved, _ := db.GetSubmission("test-id")
				Expect(saved.Suggested.Amount).To(Equal("1500"))
				Expect(saved.Suggested.Purpose).To(Equal("スターバックス渋谷店"))
			})
		})

		When("the submission is updated", func() {
			It("overwrites the stored record", func() {
				sub.Status = StatusRecorded
				sub.AmountYen = 1500
				Expect(db.SaveSubmission(sub)).NotTo(HaveOccurred())

				saved, getErr := db.GetSubmission("test-id")
				Expect(getErr).NotTo(HaveOccurred())
				Expect(saved.Status).To(Equal(StatusRecorded))
				Expect(saved.AmountYen).To(Equal(1500))
			})
		})
	})

	Describe("GetSubmission", func() {
		var (
			id  string
			sub *Submission
			err error
		)

		JustBeforeEach(func() {
			sub, err = db.GetSubmission(id)
		})

		When("the submission exists", func() {
			BeforeEach(func() {
				id = "test-id"
				Expect(db.SaveSubmission(newSubmission("test-id"))).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the correct submission", func() {
				Expect(sub.ID).To(Equal("test-id"))
				Expect(sub.Status).To(Equal(StatusPending))
			})
		})

		When("the submission does not exist", func() {
			BeforeEach(func() {
				id = "nonexistent"
			})

			It("returns a not-found error", func() {
				Expect(err).To(MatchError(ContainSubstring("submission not found")))
			})
		})
	})

	Describe("ListSubmissions", func() {
		var (
			subs []*Submission
			err  error
		)

		JustBeforeEach(func() {
			subs, err = db.ListSubmissions()
		})

		When("submissions exist", func() {
			BeforeEach(func() {
				Expect(db.SaveSubmission(newSubmission("id1"))).NotTo(HaveOccurred())
				Expect(db.SaveSubmission(newSubmission("id2"))).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return all submissions", func() {
				Expect(subs).To(HaveLen(2))
			})
		})

		When("the database is empty", func() {
			It("returns an empty slice, not nil", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(subs).NotTo(BeNil())
				Expect(subs).To(BeEmpty())
			})
		})
	})

	Describe("DeleteSubmission", func() {
		var (
			id  string
			err error
		)

		JustBeforeEach(func() {
			err = db.DeleteSubmission(id)
		})

		When("the submission exists", func() {
			BeforeEach(func() {
				id = "test-id"
				Expect(db.SaveSubmission(newSubmission("test-id"))).NotTo(HaveOccurred())
			})

			It("should not return an error", func() {
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the submission", func() {
				_, getErr := db.GetSubmission("test-id")
				Expect(getErr).To(HaveOccurred())
			})
		})
	})
})
