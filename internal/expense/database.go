package expense

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const submissionBucket = "submissions"

// DB defines the interface for submission persistence
type DB interface {
	// SaveSubmission saves a submission to the database
	SaveSubmission(sub *Submission) error

	// GetSubmission retrieves a submission by ID
	GetSubmission(id string) (*Submission, error)

	// ListSubmissions returns all submissions
	ListSubmissions() ([]*Submission, error)

	// DeleteSubmission removes a submission from the database
	DeleteSubmission(id string) error

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(submissionBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltDB{db: db}, nil
}

// SaveSubmission saves a submission to the database
func (b *BoltDB) SaveSubmission(sub *Submission) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(sub)
		if err != nil {
			return fmt.Errorf("marshaling submission: %w", err)
		}
		return tx.Bucket([]byte(submissionBucket)).Put([]byte(sub.ID), data)
	})
}

// GetSubmission retrieves a submission by ID
func (b *BoltDB) GetSubmission(id string) (*Submission, error) {
	var sub *Submission
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(submissionBucket)).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("submission not found: %s", id)
		}
		return json.Unmarshal(data, &sub)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubmissions returns all submissions
func (b *BoltDB) ListSubmissions() ([]*Submission, error) {
	subs := make([]*Submission, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(submissionBucket)).ForEach(func(k, v []byte) error {
			var sub Submission
			if err := json.Unmarshal(v, &sub); err != nil {
				return fmt.Errorf("unmarshaling submission: %w", err)
			}
			subs = append(subs, &sub)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return subs, nil
}

// DeleteSubmission removes a submission from the database
func (b *BoltDB) DeleteSubmission(id string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(submissionBucket)).Delete([]byte(id))
	})
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
