package controller

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

type QuestionKind string

const (
	QuestionChoice QuestionKind = "choice"
	QuestionText   QuestionKind = "text"
)

type QuizResult struct {
	Answered int
	Total    int
	// CompletionRate is answered/total as a rounded percentage.
	CompletionRate int
}

func (r QuizResult) String() string {
	return fmt.Sprintf("Quiz submitted! Completion: %d%%", r.CompletionRate)
}

type Quiz struct {
	ID string

	mu        sync.Mutex
	kinds     []QuestionKind
	answers   []string
	submitted bool
	result    QuizResult
}

func NewQuiz(id string, kinds []QuestionKind) *Quiz {
	return &Quiz{
		ID:      id,
		kinds:   append([]QuestionKind(nil), kinds...),
		answers: make([]string, len(kinds)),
	}
}

// Answer records the value for question i: the chosen option for choice
// questions, free text otherwise. An empty value clears the answer.
func (q *Quiz) Answer(i int, value string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.submitted {
		return ErrSubmitted
	}
	if i < 0 || i >= len(q.answers) {
		return fmt.Errorf("quiz %s question %d: %w", q.ID, i, ErrNoSuchItem)
	}
	q.answers[i] = value
	return nil
}

func (q *Quiz) AnswerOf(i int) string {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < 0 || i >= len(q.answers) {
		return ""
	}
	return q.answers[i]
}

func (q *Quiz) Kinds() []QuestionKind {
	return append([]QuestionKind(nil), q.kinds...)
}

// Submit freezes the quiz. Later calls return the result of the first one.
func (q *Quiz) Submit() QuizResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.submitted {
		return q.result
	}

	r := QuizResult{Total: len(q.answers)}
	for _, a := range q.answers {
		if strings.TrimSpace(a) != "" {
			r.Answered++
		}
	}
	if r.Total > 0 {
		r.CompletionRate = int(math.Round(float64(r.Answered) / float64(r.Total) * 100))
	}
	q.result = r
	q.submitted = true
	return r
}

func (q *Quiz) Result() (QuizResult, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.result, q.submitted
}

func (q *Quiz) Submitted() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.submitted
}
