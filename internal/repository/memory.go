package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/KulinduRashmika/SeatAllocatorApp/internal/apperr"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/model"
)

// Memory is an in-memory store used by tests and by local development when
// no database is configured. One mutex guards both tables, so an allocation
// commit updates the exam counters and the registration as a single unit,
// matching the transactional boundary of the PostgreSQL store.
type Memory struct {
	mu            sync.RWMutex
	exams         map[string]model.Exam
	registrations map[string]model.Registration
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		exams:         make(map[string]model.Exam),
		registrations: make(map[string]model.Registration),
	}
}

// Create inserts a new exam and assigns it a generated UUID.
func (m *Memory) Create(ctx context.Context, exam *model.Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exam.ID = uuid.New().String()
	exam.CreatedAt = time.Now().UTC()
	m.exams[exam.ID] = *exam
	return nil
}

// GetByID returns a copy of the stored exam or apperr.ErrNotFound.
func (m *Memory) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.exams[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &e, nil
}

// List returns all exams in creation order.
func (m *Memory) List(ctx context.Context) ([]model.Exam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	exams := make([]model.Exam, 0, len(m.exams))
	for _, e := range m.exams {
		exams = append(exams, e)
	}
	sort.Slice(exams, func(i, j int) bool {
		return exams[i].CreatedAt.Before(exams[j].CreatedAt)
	})
	return exams, nil
}

// CommitAllocation stores the mutated exam counters and the allocated
// registration under one lock acquisition.
func (m *Memory) CommitAllocation(ctx context.Context, exam *model.Exam, reg *model.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.exams[exam.ID]; !ok {
		return apperr.ErrNotFound
	}

	reg.ID = uuid.New().String()
	reg.CreatedAt = time.Now().UTC()
	m.exams[exam.ID] = *exam
	m.registrations[reg.ID] = *reg
	return nil
}

// createRegistration inserts a registration on its own, used for the
// waitlisted path where no exam counters change. ExamStore already claims
// the Create name, so the RegistrationStore view is exposed via
// Registrations instead.
func (m *Memory) createRegistration(reg *model.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg.ID = uuid.New().String()
	reg.CreatedAt = time.Now().UTC()
	m.registrations[reg.ID] = *reg
	return nil
}

// GetRegistration returns a copy of the stored registration or apperr.ErrNotFound.
func (m *Memory) GetRegistration(ctx context.Context, id string) (*model.Registration, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	reg, ok := m.registrations[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return &reg, nil
}

// SetPaid marks a registration as paid; repeat calls are no-ops.
func (m *Memory) SetPaid(ctx context.Context, id string) (*model.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reg, ok := m.registrations[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	reg.Paid = true
	m.registrations[id] = reg
	return &reg, nil
}

// Registrations returns the RegistrationStore view of the memory store.
func (m *Memory) Registrations() RegistrationStore {
	return memoryRegistrations{m}
}

type memoryRegistrations struct {
	m *Memory
}

func (r memoryRegistrations) Create(ctx context.Context, reg *model.Registration) error {
	return r.m.createRegistration(reg)
}

func (r memoryRegistrations) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	return r.m.GetRegistration(ctx, id)
}

func (r memoryRegistrations) SetPaid(ctx context.Context, id string) (*model.Registration, error) {
	return r.m.SetPaid(ctx, id)
}
