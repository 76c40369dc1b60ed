package waitlist

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Badger is a Registry that persists each queue to an embedded badger
// database, so waitlists survive a process restart. Each exam's queue is
// stored as one JSON-encoded slice under its exam id; an append reads,
// extends, and rewrites the slice inside a single update transaction,
// which keeps arrival order identical to the in-memory registry.
type Badger struct {
	mu sync.Mutex
	db *badger.DB
}

// OpenBadger opens (or creates) a badger-backed registry at path.
func OpenBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open waitlist db: %w", err)
	}
	return &Badger{db: db}, nil
}

// Close releases the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

func queueKey(examID string) []byte {
	return []byte("waitlist/" + examID)
}

// Enqueue appends name to the exam's persisted queue.
func (b *Badger) Enqueue(examID, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.db.Update(func(txn *badger.Txn) error {
		queue, err := readQueue(txn, examID)
		if err != nil {
			return err
		}
		queue = append(queue, name)
		encoded, err := json.Marshal(queue)
		if err != nil {
			return err
		}
		return txn.Set(queueKey(examID), encoded)
	})
	if err != nil {
		return fmt.Errorf("enqueue %q for exam %s: %w", name, examID, err)
	}
	return nil
}

// Snapshot returns the exam's persisted queue in arrival order.
func (b *Badger) Snapshot(examID string) ([]string, error) {
	var queue []string
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		queue, err = readQueue(txn, examID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read waitlist for exam %s: %w", examID, err)
	}
	if queue == nil {
		queue = []string{}
	}
	return queue, nil
}

func readQueue(txn *badger.Txn, examID string) ([]string, error) {
	item, err := txn.Get(queueKey(examID))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var queue []string
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &queue)
	})
	return queue, err
}
