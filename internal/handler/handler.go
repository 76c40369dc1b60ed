// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/KulinduRashmika/SeatAllocatorApp/internal/apperr"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/model"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/service"
)

// ExamHandler holds all HTTP handlers for the seat allocation API.
type ExamHandler struct {
	svc *service.ExamService
}

// NewExamHandler constructs an ExamHandler.
func NewExamHandler(svc *service.ExamService) *ExamHandler {
	return &ExamHandler{svc: svc}
}

// Routes mounts all API routes on a new chi router.
func (h *ExamHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api/exams", func(r chi.Router) {
		r.Post("/", h.CreateExam)
		r.Get("/", h.ListExams)
		r.Get("/upcoming", h.UpcomingExams)
		// Original client path for the same ranking.
		r.Get("/sorted-heap", h.UpcomingExams)
		r.Post("/{id}/register", h.Register)
		r.Get("/{id}/waitlist", h.Waitlist)
	})

	r.Route("/api/registrations", func(r chi.Router) {
		r.Post("/{id}/pay", h.MarkPaid)
		r.Get("/{id}", h.GetRegistration)
	})

	return r
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// CreateExam handles POST /api/exams
func (h *ExamHandler) CreateExam(w http.ResponseWriter, r *http.Request) {
	var req model.CreateExamRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	exam, err := h.svc.AddExam(r.Context(), req)
	if err != nil {
		if apperr.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create exam")
		return
	}

	writeJSON(w, http.StatusCreated, exam)
}

// ListExams handles GET /api/exams
func (h *ExamHandler) ListExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.svc.ListExams(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list exams")
		return
	}

	// Return an empty array rather than null for better client compatibility.
	if exams == nil {
		exams = []model.Exam{}
	}

	writeJSON(w, http.StatusOK, exams)
}

// UpcomingExams handles GET /api/exams/upcoming
// Returns exams dated today or later, earliest first.
func (h *ExamHandler) UpcomingExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.svc.UpcomingExams(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to rank exams")
		return
	}

	if exams == nil {
		exams = []model.Exam{}
	}

	writeJSON(w, http.StatusOK, exams)
}

// Register handles POST /api/exams/{id}/register
// Allocates the next seat for the exam, or waitlists the student.
func (h *ExamHandler) Register(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	outcome, err := h.svc.RegisterStudent(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			writeError(w, http.StatusNotFound, "exam not found")
		case apperr.IsValidation(err):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "failed to register student")
		}
		return
	}

	writeJSON(w, http.StatusCreated, outcome)
}

// Waitlist handles GET /api/exams/{id}/waitlist
// Returns waitlisted applicant names in arrival order; an unknown exam id
// yields an empty list.
func (h *ExamHandler) Waitlist(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	names, err := h.svc.Waitlist(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read waitlist")
		return
	}

	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, names)
}

// MarkPaid handles POST /api/registrations/{id}/pay
func (h *ExamHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reg, err := h.svc.MarkPaid(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "registration not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to mark registration paid")
		return
	}

	writeJSON(w, http.StatusOK, model.PaymentResult{
		Message: "Payment successful",
		Paid:    reg.Paid,
	})
}

// GetRegistration handles GET /api/registrations/{id}
func (h *ExamHandler) GetRegistration(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	reg, err := h.svc.GetRegistration(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeError(w, http.StatusNotFound, "registration not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get registration")
		return
	}

	writeJSON(w, http.StatusOK, reg)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
