// Package store persists the study-material catalog and study plans behind
// the in-memory containers.
package store

import "neetgenie/pkg/domain"

// Store defines persistence operations for materials and plans.
type Store interface {
	// materials
	SaveMaterial(m domain.StudyMaterial) (domain.StudyMaterial, error)
	ListMaterials() ([]domain.StudyMaterial, error)
	GetMaterial(id int) (domain.StudyMaterial, bool, error)

	// plans
	SavePlan(p domain.StudyPlan) error
	ListPlans() ([]domain.StudyPlan, error)
	DeletePlan(id string) error
}
