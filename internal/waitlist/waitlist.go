// Package waitlist keeps the per-exam FIFO queues of applicants who could
// not be allocated a seat. Queues are append-and-read only: no operation
// in the system ever removes an entry, because seats never free up.
package waitlist

import "sync"

// Registry maps an exam identifier to an ordered queue of applicant names.
type Registry interface {
	// Enqueue appends name to the tail of the exam's queue, creating the
	// queue if it does not exist yet.
	Enqueue(examID, name string) error
	// Snapshot returns the queue contents in arrival order without removing
	// them. Unknown exams yield an empty slice, not an error.
	Snapshot(examID string) ([]string, error)
}

// Memory is the default Registry: a process-lifetime map of queues.
// Contents are lost on restart; allocations persist in the registration
// store, so only deferred applicants are affected.
type Memory struct {
	mu     sync.Mutex
	queues map[string][]string
}

// NewMemory constructs an empty in-memory registry.
func NewMemory() *Memory {
	return &Memory{queues: make(map[string][]string)}
}

// Enqueue appends name to the exam's queue.
func (m *Memory) Enqueue(examID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queues[examID] = append(m.queues[examID], name)
	return nil
}

// Snapshot returns a copy of the exam's queue in arrival order.
func (m *Memory) Snapshot(examID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	queue := m.queues[examID]
	out := make([]string, len(queue))
	copy(out, queue)
	return out, nil
}
