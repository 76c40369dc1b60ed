package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KulinduRashmika/SeatAllocatorApp/internal/handler"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/model"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/repository"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/service"
	"github.com/KulinduRashmika/SeatAllocatorApp/internal/waitlist"
)

func newTestRouter() chi.Router {
	mem := repository.NewMemory()
	svc := service.NewExamService(mem, mem.Registrations(), mem, waitlist.NewMemory())
	return handler.NewExamHandler(svc).Routes()
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func createExam(t *testing.T, router chi.Router, totalSeats int) model.Exam {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/exams", model.CreateExamRequest{
		Name:       "Mathematics Final",
		Time:       "09:00 AM",
		Type:       model.ExamTypeExam,
		Priority:   model.PriorityHigh,
		TotalSeats: totalSeats,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[model.Exam](t, rec)
}

func TestCreateExam(t *testing.T) {
	router := newTestRouter()

	exam := createExam(t, router, 10)
	assert.NotEmpty(t, exam.ID)
	assert.Equal(t, 10, exam.AvailableSeats)
	assert.Equal(t, 1, exam.NextSeatNumber)
}

func TestCreateExamValidation(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/exams", model.CreateExamRequest{
		Name:       "Physics",
		TotalSeats: 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeBody[model.ErrorResponse](t, rec)
	assert.Contains(t, body.Error, "totalSeats")
}

func TestListExamsEmpty(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/exams", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestRegisterUnknownExam(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/exams/no-such-exam/register", model.RegisterRequest{
		StudentName: "Alice",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterAndWaitlistFlow(t *testing.T) {
	router := newTestRouter()
	exam := createExam(t, router, 1)

	// First student gets seat 1.
	rec := doJSON(t, router, http.MethodPost, "/api/exams/"+exam.ID+"/register", model.RegisterRequest{
		StudentName: "Alice",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	alice := decodeBody[model.RegistrationOutcome](t, rec)
	assert.Equal(t, model.StatusAllocated, alice.Status)
	require.NotNil(t, alice.SeatNumber)
	assert.Equal(t, 1, *alice.SeatNumber)
	assert.Contains(t, alice.Message, "1")

	// Second student is waitlisted.
	rec = doJSON(t, router, http.MethodPost, "/api/exams/"+exam.ID+"/register", model.RegisterRequest{
		StudentName: "Bob",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	bob := decodeBody[model.RegistrationOutcome](t, rec)
	assert.Equal(t, model.StatusWaitlisted, bob.Status)
	assert.Nil(t, bob.SeatNumber)

	// Waitlist shows Bob only, in order.
	rec = doJSON(t, router, http.MethodGet, "/api/exams/"+exam.ID+"/waitlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Bob"}, decodeBody[[]string](t, rec))

	// Alice pays; repeating the call stays successful.
	for i := 0; i < 2; i++ {
		rec = doJSON(t, router, http.MethodPost, "/api/registrations/"+alice.RegistrationID+"/pay", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		paid := decodeBody[model.PaymentResult](t, rec)
		assert.True(t, paid.Paid)
		assert.Equal(t, "Payment successful", paid.Message)
	}

	// The stored registration reflects the payment.
	rec = doJSON(t, router, http.MethodGet, "/api/registrations/"+alice.RegistrationID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reg := decodeBody[model.Registration](t, rec)
	assert.Equal(t, "Alice", reg.StudentName)
	assert.Equal(t, model.StatusAllocated, reg.Status)
	assert.True(t, reg.Paid)
}

func TestWaitlistUnknownExamReturnsEmptyList(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/exams/no-such-exam/waitlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestMarkPaidUnknownRegistration(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/api/registrations/no-such-reg/pay", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRegistrationUnknown(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodGet, "/api/registrations/no-such-reg", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpcomingEndpointsShareOneRanking(t *testing.T) {
	router := newTestRouter()
	createExam(t, router, 5)

	// The created exam has no date, so both ranking paths return nothing.
	for _, path := range []string{"/api/exams/upcoming", "/api/exams/sorted-heap"} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String(), path)
	}
}
