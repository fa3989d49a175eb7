package store

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"neetgenie/pkg/domain"
)

// GormStore implements Store using GORM + Postgres.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the DB and runs auto-migrations.
func NewGormStore(dsn string) (*GormStore, error) {
	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&MaterialModel{}, &PlanModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &GormStore{db: db}, nil
}

// SaveMaterial inserts or updates a material and returns it with its
// assigned id.
func (s *GormStore) SaveMaterial(m domain.StudyMaterial) (domain.StudyMaterial, error) {
	model := materialToModel(m)
	if err := s.db.Save(&model).Error; err != nil {
		return domain.StudyMaterial{}, err
	}
	return materialFromModel(model), nil
}

// ListMaterials returns the catalog ordered by creation time.
func (s *GormStore) ListMaterials() ([]domain.StudyMaterial, error) {
	var models []MaterialModel
	if err := s.db.Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.StudyMaterial, 0, len(models))
	for _, m := range models {
		res = append(res, materialFromModel(m))
	}
	return res, nil
}

// GetMaterial retrieves one material by id.
func (s *GormStore) GetMaterial(id int) (domain.StudyMaterial, bool, error) {
	var model MaterialModel
	if err := s.db.First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return domain.StudyMaterial{}, false, nil
		}
		return domain.StudyMaterial{}, false, err
	}
	return materialFromModel(model), true, nil
}

// SavePlan stores a study plan.
func (s *GormStore) SavePlan(p domain.StudyPlan) error {
	model, err := planToModel(p)
	if err != nil {
		return err
	}
	return s.db.Create(&model).Error
}

// ListPlans returns plans newest first, matching the container's
// prepend-order view.
func (s *GormStore) ListPlans() ([]domain.StudyPlan, error) {
	var models []PlanModel
	if err := s.db.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	res := make([]domain.StudyPlan, 0, len(models))
	for _, m := range models {
		res = append(res, planFromModel(m))
	}
	return res, nil
}

// DeletePlan removes a plan by id.
func (s *GormStore) DeletePlan(id string) error {
	return s.db.Delete(&PlanModel{}, "id = ?", id).Error
}

func materialToModel(m domain.StudyMaterial) MaterialModel {
	return MaterialModel{
		ID:          m.ID,
		Title:       m.Title,
		Subject:     m.Subject,
		Type:        string(m.Type),
		Description: m.Description,
		Pages:       m.Pages,
		Duration:    m.Duration,
		Rating:      m.Rating,
		StorageKey:  m.StorageKey,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func materialFromModel(m MaterialModel) domain.StudyMaterial {
	return domain.StudyMaterial{
		ID:          m.ID,
		Title:       m.Title,
		Subject:     m.Subject,
		Type:        domain.MaterialType(m.Type),
		Description: m.Description,
		Pages:       m.Pages,
		Duration:    m.Duration,
		Rating:      m.Rating,
		StorageKey:  m.StorageKey,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func planToModel(p domain.StudyPlan) (PlanModel, error) {
	daily, err := json.Marshal(p.DailySchedule)
	if err != nil {
		return PlanModel{}, err
	}
	weekly, err := json.Marshal(p.WeeklyPlans)
	if err != nil {
		return PlanModel{}, err
	}
	resources, err := json.Marshal(p.Resources)
	if err != nil {
		return PlanModel{}, err
	}
	return PlanModel{
		ID:            p.ID,
		Overview:      p.Overview,
		DailySchedule: daily,
		WeeklyPlans:   weekly,
		Resources:     resources,
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
	}, nil
}

func planFromModel(m PlanModel) domain.StudyPlan {
	plan := domain.StudyPlan{
		ID:        m.ID,
		Overview:  m.Overview,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
	}
	if len(m.DailySchedule) > 0 {
		_ = json.Unmarshal(m.DailySchedule, &plan.DailySchedule)
	}
	if len(m.WeeklyPlans) > 0 {
		_ = json.Unmarshal(m.WeeklyPlans, &plan.WeeklyPlans)
	}
	if len(m.Resources) > 0 {
		_ = json.Unmarshal(m.Resources, &plan.Resources)
	}
	return plan
}
