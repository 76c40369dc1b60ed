// Package service implements the seat allocation engine: the business
// logic that assigns seat numbers, maintains per-exam waitlists, and
// orchestrates the stores underneath the HTTP handlers.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/KulinduRashmika/SeatAllocatorApp/internal/apperr"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/model"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/repository"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/waitlist"
)

// ExamService orchestrates exam and registration operations.
type ExamService struct {
	exams         repository.ExamStore
	registrations repository.RegistrationStore
	allocator     repository.Allocator
	waitlists     waitlist.Registry

	// One mutex per exam id. Registration must read the seat counters,
	// decide, and write as a single unit per exam; the per-exam lock keeps
	// that unit serialised while distinct exams proceed in parallel.
	locks sync.Map
}

// NewExamService constructs an ExamService with its dependencies.
func NewExamService(
	exams repository.ExamStore,
	registrations repository.RegistrationStore,
	allocator repository.Allocator,
	waitlists waitlist.Registry,
) *ExamService {
	return &ExamService{
		exams:         exams,
		registrations: registrations,
		allocator:     allocator,
		waitlists:     waitlists,
	}
}

func (s *ExamService) examLock(examID string) *sync.Mutex {
	lock, _ := s.locks.LoadOrStore(examID, &sync.Mutex{})
	return lock.(*sync.Mutex)
}

// AddExam validates the definition and persists a new exam.
// A non-positive availableSeats means "unset" and defaults to totalSeats.
// The seat-number counter always starts at 1 regardless of caller input.
func (s *ExamService) AddExam(ctx context.Context, req model.CreateExamRequest) (*model.Exam, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, &apperr.ValidationError{Field: "name", Reason: "is required"}
	}
	if req.TotalSeats <= 0 {
		return nil, &apperr.ValidationError{Field: "totalSeats", Reason: "must be greater than zero"}
	}
	if req.Type != "" && !req.Type.Valid() {
		return nil, &apperr.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown exam type %q", req.Type)}
	}
	if req.Priority != "" && !req.Priority.Valid() {
		return nil, &apperr.ValidationError{Field: "priority", Reason: fmt.Sprintf("unknown priority %q", req.Priority)}
	}

	available := req.AvailableSeats
	if available <= 0 {
		available = req.TotalSeats
	}
	if available > req.TotalSeats {
		return nil, &apperr.ValidationError{Field: "seatsAvailable", Reason: "cannot exceed totalSeats"}
	}

	exam := &model.Exam{
		Name:           req.Name,
		Date:           req.Date,
		Time:           req.Time,
		ClosingDate:    req.ClosingDate,
		Type:           req.Type,
		Priority:       req.Priority,
		TotalSeats:     req.TotalSeats,
		AvailableSeats: available,
		NextSeatNumber: 1,
	}
	if err := s.exams.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("create exam: %w", err)
	}
	return exam, nil
}

// ListExams returns all exams.
func (s *ExamService) ListExams(ctx context.Context) ([]model.Exam, error) {
	return s.exams.List(ctx)
}

// RegisterStudent allocates the next seat number for the exam, or appends
// the student to the exam's waitlist when no seats remain. Exactly one
// registration record is created either way.
func (s *ExamService) RegisterStudent(ctx context.Context, examID string, req model.RegisterRequest) (*model.RegistrationOutcome, error) {
	if examID == "" {
		return nil, &apperr.ValidationError{Field: "examId", Reason: "is required"}
	}

	lock := s.examLock(examID)
	lock.Lock()
	defer lock.Unlock()

	exam, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}

	reg := &model.Registration{
		ExamID:      examID,
		StudentName: req.StudentName,
		RegNo:       req.RegNo,
		Email:       req.Email,
	}

	if !exam.IsFull() {
		seat := exam.NextSeatNumber
		exam.NextSeatNumber++
		exam.AvailableSeats--

		reg.SeatNumber = &seat
		reg.Status = model.StatusAllocated
		if err := s.allocator.CommitAllocation(ctx, exam, reg); err != nil {
			return nil, err
		}

		return &model.RegistrationOutcome{
			RegistrationID: reg.ID,
			Message:        fmt.Sprintf("Seat Allocated: %d", seat),
			SeatNumber:     &seat,
			Status:         model.StatusAllocated,
		}, nil
	}

	if err := s.waitlists.Enqueue(examID, req.StudentName); err != nil {
		return nil, fmt.Errorf("enqueue waitlist: %w", err)
	}
	reg.Status = model.StatusWaitlisted
	if err := s.registrations.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("create waitlisted registration: %w", err)
	}

	return &model.RegistrationOutcome{
		RegistrationID: reg.ID,
		Message:        "Seats Full. Added to Waitlist.",
		SeatNumber:     nil,
		Status:         model.StatusWaitlisted,
	}, nil
}

// Waitlist returns the exam's waitlisted applicant names in arrival order.
// An unknown exam id yields an empty list rather than an error.
func (s *ExamService) Waitlist(examID string) ([]string, error) {
	return s.waitlists.Snapshot(examID)
}

// MarkPaid sets the paid flag on a registration. Calling it again on an
// already-paid registration succeeds and changes nothing.
func (s *ExamService) MarkPaid(ctx context.Context, registrationID string) (*model.Registration, error) {
	reg, err := s.registrations.SetPaid(ctx, registrationID)
	if err != nil {
		return nil, err
	}
	return reg, nil
}

// GetRegistration returns a registration record as stored.
func (s *ExamService) GetRegistration(ctx context.Context, registrationID string) (*model.Registration, error) {
	return s.registrations.GetByID(ctx, registrationID)
}
