package store

import (
	"sort"
	"sync"

	"neetgenie/pkg/domain"
)

// MemoryStore is an in-memory Store for development and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	nextID    int
	materials map[int]domain.StudyMaterial
	plans     map[string]domain.StudyPlan
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:    1,
		materials: make(map[int]domain.StudyMaterial),
		plans:     make(map[string]domain.StudyPlan),
	}
}

func (s *MemoryStore) SaveMaterial(m domain.StudyMaterial) (domain.StudyMaterial, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == 0 {
		m.ID = s.nextID
		s.nextID++
	} else if m.ID >= s.nextID {
		s.nextID = m.ID + 1
	}
	s.materials[m.ID] = m
	return m, nil
}

func (s *MemoryStore) ListMaterials() ([]domain.StudyMaterial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.StudyMaterial, 0, len(s.materials))
	for _, m := range s.materials {
		res = append(res, m)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID < res[j].ID
		}
		return res[i].CreatedAt.Before(res[j].CreatedAt)
	})
	return res, nil
}

func (s *MemoryStore) GetMaterial(id int) (domain.StudyMaterial, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.materials[id]
	return m, ok, nil
}

func (s *MemoryStore) SavePlan(p domain.StudyPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = p
	return nil
}

func (s *MemoryStore) ListPlans() ([]domain.StudyPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]domain.StudyPlan, 0, len(s.plans))
	for _, p := range s.plans {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res, nil
}

func (s *MemoryStore) DeletePlan(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.plans, id)
	return nil
}
