package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KulinduRashmika/SeatAllocatorApp/internal/apperr"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/model"
)

// ExamRepository is the PostgreSQL-backed ExamStore.
type ExamRepository struct {
	db *pgxpool.Pool
}

// NewExamRepository constructs an ExamRepository.
func NewExamRepository(db *pgxpool.Pool) *ExamRepository {
	return &ExamRepository{db: db}
}

// dateArg converts an optional calendar date into a query argument.
func dateArg(d *model.Date) any {
	if d == nil {
		return nil
	}
	return d.Time
}

// dateField converts a scanned nullable date column back to the model type.
func dateField(t *time.Time) *model.Date {
	if t == nil {
		return nil
	}
	d := model.NewDate(t.Date())
	return &d
}

// Create inserts a new exam and assigns it a generated UUID.
func (r *ExamRepository) Create(ctx context.Context, exam *model.Exam) error {
	exam.ID = uuid.New().String()
	exam.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO exams (id, name, exam_date, exam_time, closing_date, exam_type, priority,
		                    total_seats, available_seats, next_seat_number, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		exam.ID, exam.Name, dateArg(exam.Date), exam.Time, dateArg(exam.ClosingDate),
		exam.Type, exam.Priority, exam.TotalSeats, exam.AvailableSeats,
		exam.NextSeatNumber, exam.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert exam: %w", err)
	}
	return nil
}

const examColumns = `id, name, exam_date, exam_time, closing_date, exam_type, priority,
	total_seats, available_seats, next_seat_number, created_at`

func scanExam(row pgx.Row) (*model.Exam, error) {
	var (
		e            model.Exam
		date, closes *time.Time
	)
	err := row.Scan(&e.ID, &e.Name, &date, &e.Time, &closes, &e.Type, &e.Priority,
		&e.TotalSeats, &e.AvailableSeats, &e.NextSeatNumber, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Date = dateField(date)
	e.ClosingDate = dateField(closes)
	return &e, nil
}

// List returns all exams ordered by creation time.
func (r *ExamRepository) List(ctx context.Context) ([]model.Exam, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+examColumns+` FROM exams ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list exams: %w", err)
	}
	defer rows.Close()

	var exams []model.Exam
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan exam: %w", err)
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

// GetByID returns a single exam or apperr.ErrNotFound.
func (r *ExamRepository) GetByID(ctx context.Context, id string) (*model.Exam, error) {
	e, err := scanExam(r.db.QueryRow(ctx,
		`SELECT `+examColumns+` FROM exams WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get exam: %w", err)
	}
	return e, nil
}

// RegistrationRepository is the PostgreSQL-backed RegistrationStore and
// Allocator.
type RegistrationRepository struct {
	db *pgxpool.Pool
}

// NewRegistrationRepository constructs a RegistrationRepository.
func NewRegistrationRepository(db *pgxpool.Pool) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// CommitAllocation writes the mutated exam counters and the allocated
// registration inside one transaction, locking the exam row first so that
// another process cannot interleave its own allocation.
//
// The row lock (SELECT ... FOR UPDATE) serialises concurrent attempts on the
// same exam at the database level: whichever transaction acquires the lock
// first commits its counter update before the next one may even read the row.
func (r *RegistrationRepository) CommitAllocation(ctx context.Context, exam *model.Exam, reg *model.Registration) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the exam row and confirm the counters we are about to overwrite
	// are the ones the engine read. exam already carries the post-allocation
	// values, so the stored row must be exactly one step behind.
	var storedAvailable, storedNext int
	err = tx.QueryRow(ctx,
		`SELECT available_seats, next_seat_number FROM exams WHERE id = $1 FOR UPDATE`,
		exam.ID,
	).Scan(&storedAvailable, &storedNext)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.ErrNotFound
		}
		return fmt.Errorf("lock exam row: %w", err)
	}
	if storedAvailable != exam.AvailableSeats+1 || storedNext != exam.NextSeatNumber-1 {
		err = &apperr.ConsistencyError{
			Op:  "allocation commit",
			Err: fmt.Errorf("exam %s counters moved underneath the allocation", exam.ID),
		}
		return err
	}

	_, err = tx.Exec(ctx,
		`UPDATE exams SET available_seats = $2, next_seat_number = $3 WHERE id = $1`,
		exam.ID, exam.AvailableSeats, exam.NextSeatNumber,
	)
	if err != nil {
		return fmt.Errorf("update seat counters: %w", err)
	}

	reg.ID = uuid.New().String()
	reg.CreatedAt = time.Now().UTC()
	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (id, exam_id, student_name, reg_no, email, seat_number, status, paid, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		reg.ID, reg.ExamID, reg.StudentName, reg.RegNo, reg.Email,
		reg.SeatNumber, reg.Status, reg.Paid, reg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Create inserts a registration on its own, used for the waitlisted path
// where no exam counters change.
func (r *RegistrationRepository) Create(ctx context.Context, reg *model.Registration) error {
	reg.ID = uuid.New().String()
	reg.CreatedAt = time.Now().UTC()

	_, err := r.db.Exec(ctx,
		`INSERT INTO registrations (id, exam_id, student_name, reg_no, email, seat_number, status, paid, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		reg.ID, reg.ExamID, reg.StudentName, reg.RegNo, reg.Email,
		reg.SeatNumber, reg.Status, reg.Paid, reg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

const registrationColumns = `id, exam_id, student_name, reg_no, email, seat_number, status, paid, created_at`

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(&reg.ID, &reg.ExamID, &reg.StudentName, &reg.RegNo, &reg.Email,
		&reg.SeatNumber, &reg.Status, &reg.Paid, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// GetByID returns a single registration or apperr.ErrNotFound.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*model.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

// SetPaid marks a registration as paid and returns the updated record.
// Re-marking an already-paid registration is not an error.
func (r *RegistrationRepository) SetPaid(ctx context.Context, id string) (*model.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(ctx,
		`UPDATE registrations SET paid = TRUE WHERE id = $1 RETURNING `+registrationColumns,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("mark registration paid: %w", err)
	}
	return reg, nil
}
