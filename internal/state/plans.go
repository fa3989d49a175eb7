package state

import (
	"sync"

	"neetgenie/pkg/domain"
)

// Plans owns the study-plan collection and selection.
type Plans struct {
	mu       sync.RWMutex
	plans    []domain.StudyPlan
	selected string
	loading  bool
	err      string
}

// NewPlans initializes an empty plan collection.
func NewPlans() *Plans {
	return &Plans{}
}

// Prepend inserts a plan at the front of the collection.
func (p *Plans) Prepend(plan domain.StudyPlan) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plans = append([]domain.StudyPlan{plan}, p.plans...)
}

// RemoveByID filters out the plan with the given id. Removing the selected
// plan clears the selection.
func (p *Plans) RemoveByID(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	kept := p.plans[:0]
	for _, plan := range p.plans {
		if plan.ID != id {
			kept = append(kept, plan)
		}
	}
	p.plans = kept
	if p.selected == id {
		p.selected = ""
	}
}

// ReplaceAll swaps the whole collection.
func (p *Plans) ReplaceAll(plans []domain.StudyPlan) {
	snapshot := make([]domain.StudyPlan, len(plans))
	copy(snapshot, plans)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.plans = snapshot
}

// FindByID looks up a plan.
func (p *Plans) FindByID(id string) (domain.StudyPlan, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, plan := range p.plans {
		if plan.ID == id {
			return plan, true
		}
	}
	return domain.StudyPlan{}, false
}

// All returns a snapshot of the collection, newest first.
func (p *Plans) All() []domain.StudyPlan {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.StudyPlan, len(p.plans))
	copy(out, p.plans)
	return out
}

// SetSelected records the selected plan id; empty clears the selection.
func (p *Plans) SetSelected(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.selected = id
}

// Selected returns the selected plan id, if any.
func (p *Plans) Selected() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.selected
}

// SetLoading flips the fetch-in-progress flag.
func (p *Plans) SetLoading(loading bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = loading
}

// SetError records the last error text; empty clears it.
func (p *Plans) SetError(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = text
}

// Err returns the last error text.
func (p *Plans) Err() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.err
}
