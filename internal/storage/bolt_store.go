package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/Adda-Baaj/noobcash-web/internal/domain"
)

const (
	receiptBucket = "receipts"
	// keys are an 8-byte big-endian unix-nano prefix followed by the receipt uuid,
	// so cursor order is submission order.
	keyPrefixBytes = 8
)

// boltStore implements a Store backed by BoltDB.
type boltStore struct {
	db              *bolt.DB
	cleanupMu       sync.Mutex
	lastCleanup     atomic.Int64
	receiptTTL      time.Duration
	cleanupInterval time.Duration
	now             func() time.Time
}

// openBolt initializes a BoltDB-backed Store.
func openBolt(path string, opts Options) (Store, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(receiptBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	store := &boltStore{
		db:              db,
		receiptTTL:      opts.ReceiptTTL,
		cleanupInterval: opts.CleanupInterval,
		now:             time.Now,
	}
	store.lastCleanup.Store(store.now().Unix())
	return store, nil
}

// Close closes the BoltDB store.
func (b *boltStore) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

// Record appends a receipt for evt.
func (b *boltStore) Record(evt domain.SubmissionEvent) (Receipt, error) {
	if b == nil || b.db == nil {
		return Receipt{}, fmt.Errorf("journal is closed")
	}

	now := b.now()
	if err := b.maybeCleanupExpired(now); err != nil {
		return Receipt{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return Receipt{}, fmt.Errorf("generate receipt id: %w", err)
	}
	rec := Receipt{
		ID:        id.String(),
		Event:     evt,
		ExpiresAt: now.Add(b.receiptTTL).UTC(),
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return Receipt{}, fmt.Errorf("encode receipt: %w", err)
	}

	err = b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucket))
		if bucket == nil {
			return fmt.Errorf("receipt bucket missing")
		}
		return bucket.Put(receiptKey(now, id), raw)
	})
	if err != nil {
		return Receipt{}, err
	}
	return rec, nil
}

// Recent returns up to limit unexpired receipts, newest first.
func (b *boltStore) Recent(limit int) ([]Receipt, error) {
	if b == nil || b.db == nil || limit <= 0 {
		return nil, nil
	}

	now := b.now()
	out := make([]Receipt, 0, limit)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucket))
		if bucket == nil {
			return fmt.Errorf("receipt bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.Last(); k != nil && len(out) < limit; k, v = cursor.Prev() {
			var rec Receipt
			if err := json.Unmarshal(v, &rec); err != nil {
				return fmt.Errorf("decode receipt %x: %w", k, err)
			}
			if !rec.ExpiresAt.After(now) {
				continue
			}
			out = append(out, rec)
		}
		return nil
	})
	return out, err
}

// maybeCleanupExpired removes expired receipts on a fixed cadence to avoid unbounded growth.
func (b *boltStore) maybeCleanupExpired(now time.Time) error {
	if b == nil || b.db == nil {
		return nil
	}

	last := time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	b.cleanupMu.Lock()
	defer b.cleanupMu.Unlock()

	last = time.Unix(b.lastCleanup.Load(), 0)
	if now.Sub(last) < b.cleanupInterval {
		return nil
	}

	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(receiptBucket))
		if bucket == nil {
			return fmt.Errorf("receipt bucket missing")
		}

		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			var rec Receipt
			if err := json.Unmarshal(v, &rec); err != nil || !rec.ExpiresAt.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		b.lastCleanup.Store(now.Unix())
	}
	return err
}

func receiptKey(at time.Time, id uuid.UUID) []byte {
	key := make([]byte, keyPrefixBytes+len(id))
	binary.BigEndian.PutUint64(key, uint64(at.UnixNano()))
	copy(key[keyPrefixBytes:], id[:])
	return key
}
