package state

import "sync"

// Attempt owns the in-progress test answers and marked questions.
type Attempt struct {
	mu         sync.RWMutex
	answers    map[int]int
	marked     map[int]struct{}
	submitting bool
	err        string
}

// NewAttempt initializes an empty attempt.
func NewAttempt() *Attempt {
	return &Attempt{
		answers: make(map[int]int),
		marked:  make(map[int]struct{}),
	}
}

// RecordAnswer upserts the selected option for a question. Re-answering
// overwrites; each question holds at most one answer.
func (a *Attempt) RecordAnswer(questionID, optionIndex int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.answers[questionID] = optionIndex
}

// Answer returns the recorded option for a question.
func (a *Attempt) Answer(questionID int) (int, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	opt, ok := a.answers[questionID]
	return opt, ok
}

// Answers returns a snapshot of the answer map.
func (a *Attempt) Answers() map[int]int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(map[int]int, len(a.answers))
	for q, o := range a.answers {
		out[q] = o
	}
	return out
}

// ToggleMark adds the question to the marked set if absent, removes it
// otherwise.
func (a *Attempt) ToggleMark(questionID int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.marked[questionID]; ok {
		delete(a.marked, questionID)
		return
	}
	a.marked[questionID] = struct{}{}
}

// IsMarked reports membership in the marked set.
func (a *Attempt) IsMarked(questionID int) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	_, ok := a.marked[questionID]
	return ok
}

// Marked returns a snapshot of the marked question ids.
func (a *Attempt) Marked() []int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]int, 0, len(a.marked))
	for q := range a.marked {
		out = append(out, q)
	}
	return out
}

// ResetAll clears answers and marks together, as on submit.
func (a *Attempt) ResetAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.answers = make(map[int]int)
	a.marked = make(map[int]struct{})
}

// SetSubmitting flips the submit-in-progress flag.
func (a *Attempt) SetSubmitting(submitting bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.submitting = submitting
}

// Submitting reports whether a submit is in progress.
func (a *Attempt) Submitting() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.submitting
}

// SetError records the last error text; empty clears it.
func (a *Attempt) SetError(text string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = text
}

// Err returns the last error text.
func (a *Attempt) Err() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.err
}
