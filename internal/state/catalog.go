package state

import (
	"strings"
	"sync"

	"neetgenie/pkg/domain"
)

// FilterPatch is a partial filter update. Nil fields leave the current value
// untouched; SubjectSet distinguishes "set subject to nil" from "no change".
type FilterPatch struct {
	Subject    *string
	SubjectSet bool
	Type       *domain.TypeFilter
	Search     *string
}

// Catalog owns the study-material list and its filter.
type Catalog struct {
	mu        sync.RWMutex
	materials []domain.StudyMaterial
	filter    domain.MaterialFilter
	loading   bool
	err       string
}

// NewCatalog starts empty with the neutral filter.
func NewCatalog() *Catalog {
	return &Catalog{
		filter: domain.MaterialFilter{Type: domain.FilterAll},
	}
}

// ReplaceAll swaps the whole material list. Entries are never mutated in
// place.
func (c *Catalog) ReplaceAll(materials []domain.StudyMaterial) {
	snapshot := make([]domain.StudyMaterial, len(materials))
	copy(snapshot, materials)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.materials = snapshot
}

// Materials returns a snapshot of the unfiltered catalog.
func (c *Catalog) Materials() []domain.StudyMaterial {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.StudyMaterial, len(c.materials))
	copy(out, c.materials)
	return out
}

// MergeFilter shallow-merges a partial update into the current filter.
func (c *Catalog) MergeFilter(patch FilterPatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if patch.SubjectSet {
		c.filter.Subject = patch.Subject
	}
	if patch.Type != nil {
		c.filter.Type = *patch.Type
	}
	if patch.Search != nil {
		c.filter.Search = *patch.Search
	}
}

// Filter returns the current filter state.
func (c *Catalog) Filter() domain.MaterialFilter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filter
}

// Filtered returns the catalog view matching the current filter: subject
// equality when set, type unless "all", and a case-insensitive search over
// title and description.
func (c *Catalog) Filtered() []domain.StudyMaterial {
	c.mu.RLock()
	defer c.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(c.filter.Search))
	out := make([]domain.StudyMaterial, 0, len(c.materials))
	for _, m := range c.materials {
		if c.filter.Subject != nil && !strings.EqualFold(m.Subject, *c.filter.Subject) {
			continue
		}
		if c.filter.Type != domain.FilterAll && string(m.Type) != string(c.filter.Type) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(m.Title), search) &&
			!strings.Contains(strings.ToLower(m.Description), search) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// SetLoading flips the fetch-in-progress flag.
func (c *Catalog) SetLoading(loading bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = loading
}

// SetError records the last catalog error; empty clears it.
func (c *Catalog) SetError(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = text
}

// Err returns the last catalog error text.
func (c *Catalog) Err() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}
