// Package model defines the core domain types for the seat allocation system.
package model

import "time"

// ExamType categorises an exam sitting.
type ExamType string

const (
	ExamTypeExam          ExamType = "Exam"
	ExamTypeBatchRepeat   ExamType = "Batch Repeat"
	ExamTypeSpecialRepeat ExamType = "Special Repeat"
)

// Valid reports whether t is one of the known exam types.
func (t ExamType) Valid() bool {
	switch t {
	case ExamTypeExam, ExamTypeBatchRepeat, ExamTypeSpecialRepeat:
		return true
	}
	return false
}

// Priority is the scheduling priority of an exam.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityNormal Priority = "Normal"
	PriorityLow    Priority = "Low"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityNormal, PriorityLow:
		return true
	}
	return false
}

// RegistrationStatus is the outcome of a registration attempt.
type RegistrationStatus string

const (
	StatusAllocated  RegistrationStatus = "ALLOCATED"
	StatusWaitlisted RegistrationStatus = "WAITLISTED"
)

// Exam represents a scheduled exam with a fixed number of numbered seats.
//
// Invariants: 0 <= AvailableSeats <= TotalSeats, and NextSeatNumber only
// moves forward, so no seat number is handed out twice.
type Exam struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Date           *Date     `json:"date"`
	Time           string    `json:"time"`
	ClosingDate    *Date     `json:"closing"`
	Type           ExamType  `json:"type"`
	Priority       Priority  `json:"priority"`
	TotalSeats     int       `json:"totalSeats"`
	AvailableSeats int       `json:"seatsAvailable"`
	NextSeatNumber int       `json:"nextSeatNumber"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsFull returns true when no seats remain.
func (e *Exam) IsFull() bool {
	return e.AvailableSeats <= 0
}

// Registration records the outcome of a single registration attempt.
// SeatNumber is set exactly when Status is ALLOCATED.
type Registration struct {
	ID          string             `json:"id"`
	ExamID      string             `json:"examId"`
	StudentName string             `json:"studentName"`
	RegNo       string             `json:"regNo,omitempty"`
	Email       string             `json:"email,omitempty"`
	SeatNumber  *int               `json:"seatNumber"`
	Status      RegistrationStatus `json:"status"`
	Paid        bool               `json:"paid"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// CreateExamRequest is the payload for creating a new exam.
// AvailableSeats may be omitted; non-positive values mean "all seats open".
// NextSeatNumber is accepted for wire compatibility but ignored: the seat
// counter always starts at 1.
type CreateExamRequest struct {
	Name           string   `json:"name"`
	Date           *Date    `json:"date"`
	Time           string   `json:"time"`
	ClosingDate    *Date    `json:"closing"`
	Type           ExamType `json:"type"`
	Priority       Priority `json:"priority"`
	TotalSeats     int      `json:"totalSeats"`
	AvailableSeats int      `json:"seatsAvailable"`
	NextSeatNumber int      `json:"nextSeatNumber"`
}

// RegisterRequest is the payload for registering a student for an exam.
type RegisterRequest struct {
	StudentName string `json:"studentName"`
	RegNo       string `json:"regNo"`
	Email       string `json:"email"`
}

// RegistrationOutcome summarises a registration attempt for the caller.
// SeatNumber is null when the student was waitlisted.
type RegistrationOutcome struct {
	RegistrationID string             `json:"registrationId"`
	Message        string             `json:"message"`
	SeatNumber     *int               `json:"seatNumber"`
	Status         RegistrationStatus `json:"status"`
}

// PaymentResult is returned after marking a registration as paid.
type PaymentResult struct {
	Message string `json:"message"`
	Paid    bool   `json:"paid"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
