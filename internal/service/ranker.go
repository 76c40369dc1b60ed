package service

import (
	"container/heap"
	"context"

	"github.com/KulinduRashmika/SeatAllocatorApp/internal/model"
)

// examHeap is a min-heap of exams keyed on their date, earliest first.
// Only exams with a date are ever pushed.
type examHeap []model.Exam

func (h examHeap) Len() int { return len(h) }

func (h examHeap) Less(i, j int) bool {
	return h[i].Date.Before(*h[j].Date)
}

func (h examHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *examHeap) Push(x any) {
	*h = append(*h, x.(model.Exam))
}

func (h *examHeap) Pop() any {
	old := *h
	n := len(old)
	exam := old[n-1]
	*h = old[:n-1]
	return exam
}

// UpcomingExams returns the exams dated today or later, earliest first.
// Undated exams and exams already past are excluded. Exams sharing a date
// come back in no particular relative order.
//
// The list is produced by pushing candidates onto a date-keyed min-heap and
// draining it, so successive extractions yield ascending dates.
func (s *ExamService) UpcomingExams(ctx context.Context) ([]model.Exam, error) {
	exams, err := s.exams.List(ctx)
	if err != nil {
		return nil, err
	}

	today := model.Today()
	h := &examHeap{}
	heap.Init(h)
	for _, e := range exams {
		if e.Date != nil && !e.Date.Before(today) {
			heap.Push(h, e)
		}
	}

	upcoming := make([]model.Exam, 0, h.Len())
	for h.Len() > 0 {
		upcoming = append(upcoming, heap.Pop(h).(model.Exam))
	}
	return upcoming, nil
}
