package library

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

var (
	libraryBucket = []byte("library")
	snapshotKey   = []byte("papers")
)

// BoltRepository stores the snapshot under a single key of a bolt database.
type BoltRepository struct {
	db *bolt.DB
}

// OpenBoltRepository opens (or creates) the bolt database at path.
func OpenBoltRepository(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(libraryBucket); err != nil {
			return fmt.Errorf("create bucket: %s", err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltRepository{db: db}, nil
}

// Close releases the database file lock.
func (r *BoltRepository) Close() error {
	return r.db.Close()
}

// Load decodes the stored snapshot; an absent key is an empty library.
func (r *BoltRepository) Load() (Snapshot, error) {
	var snapshot Snapshot
	err := r.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(libraryBucket).Get(snapshotKey)
		// data is only valid inside the transaction, so decode here.
		decoded, err := DecodeSnapshot(data)
		if err != nil {
			return err
		}
		snapshot = decoded
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}
	return snapshot, nil
}

// Save replaces the stored snapshot.
func (r *BoltRepository) Save(snapshot Snapshot) error {
	data, err := EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(libraryBucket).Put(snapshotKey, data)
	})
}
