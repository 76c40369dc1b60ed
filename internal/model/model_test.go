package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KulinduRashmika/SeatAllocatorApp/internal/model"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := model.NewDate(2026, time.March, 1)

	encoded, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01"`, string(encoded))

	var decoded model.Date
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, d, decoded)
}

func TestDateUnmarshalRejectsBadFormat(t *testing.T) {
	var d model.Date
	err := json.Unmarshal([]byte(`"01/03/2026"`), &d)
	assert.Error(t, err)
}

func TestDateBefore(t *testing.T) {
	earlier := model.NewDate(2026, time.March, 1)
	later := model.NewDate(2026, time.March, 2)

	assert.True(t, earlier.Before(later))
	assert.False(t, later.Before(earlier))
	assert.False(t, earlier.Before(earlier))
}

func TestExamJSONFieldNames(t *testing.T) {
	date := model.NewDate(2026, time.March, 1)
	exam := model.Exam{
		ID:             "exam-1",
		Name:           "Mathematics Final",
		Date:           &date,
		ClosingDate:    &date,
		TotalSeats:     40,
		AvailableSeats: 12,
		NextSeatNumber: 29,
	}

	encoded, err := json.Marshal(exam)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(encoded, &fields))
	assert.Contains(t, fields, "seatsAvailable")
	assert.Contains(t, fields, "closing")
	assert.Contains(t, fields, "totalSeats")
	assert.NotContains(t, fields, "availableSeats")
}

func TestExamIsFull(t *testing.T) {
	exam := model.Exam{TotalSeats: 2, AvailableSeats: 1}
	assert.False(t, exam.IsFull())

	exam.AvailableSeats = 0
	assert.True(t, exam.IsFull())
}

func TestEnumValidity(t *testing.T) {
	assert.True(t, model.ExamTypeBatchRepeat.Valid())
	assert.False(t, model.ExamType("Mock").Valid())
	assert.True(t, model.PriorityHigh.Valid())
	assert.False(t, model.Priority("Urgent").Valid())
}
