// Package repository defines the persistence seams for exams and
// registrations, with a PostgreSQL implementation on pgx (no ORM) and an
// in-memory implementation for tests and local development.
package repository

import (
	"context"

	"github.com/KulinduRashmika/SeatAllocatorApp/internal/model"
)

// ExamStore persists exam definitions and their seat counters.
// Create assigns the exam its identifier.
type ExamStore interface {
	Create(ctx context.Context, exam *model.Exam) error
	GetByID(ctx context.Context, id string) (*model.Exam, error)
	List(ctx context.Context) ([]model.Exam, error)
}

// RegistrationStore persists registration outcomes.
// Create assigns the registration its identifier.
type RegistrationStore interface {
	Create(ctx context.Context, reg *model.Registration) error
	GetByID(ctx context.Context, id string) (*model.Registration, error)
	SetPaid(ctx context.Context, id string) (*model.Registration, error)
}

// Allocator commits a seat allocation: the updated exam counters and the
// allocated registration are written together or not at all. A commit that
// cannot make that guarantee must fail the whole operation.
type Allocator interface {
	CommitAllocation(ctx context.Context, exam *model.Exam, reg *model.Registration) error
}
