package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"neetgenie/pkg/domain"
)

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListPlans(w)
	case http.MethodPost:
		s.handleCreatePlan(w, r)
	default:
		methodNotAllowed(w)
	}
}

// handleListPlans refreshes the container from the store and returns the
// newest-first collection.
func (s *Server) handleListPlans(w http.ResponseWriter) {
	s.plans.SetLoading(true)
	defer s.plans.SetLoading(false)

	plans, err := s.store.ListPlans()
	if err != nil {
		text := s.notifier.Error(err, "Failed to load study plans")
		s.plans.SetError(text)
		writeError(w, http.StatusInternalServerError, text)
		return
	}
	s.plans.SetError("")
	s.plans.ReplaceAll(plans)
	writeJSON(w, http.StatusOK, map[string]any{
		"items":    plans,
		"count":    len(plans),
		"selected": s.plans.Selected(),
	})
}

type createPlanRequest struct {
	Overview      string                 `json:"overview"`
	DailySchedule []domain.ScheduleBlock `json:"daily_schedule"`
	WeeklyPlans   []domain.WeekPlan      `json:"weekly_plans"`
	Resources     []string               `json:"resources"`
	Notes         string                 `json:"notes"`
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Overview) == "" {
		writeError(w, http.StatusBadRequest, "overview is required")
		return
	}
	plan := domain.StudyPlan{
		ID:            uuid.NewString(),
		Overview:      req.Overview,
		DailySchedule: req.DailySchedule,
		WeeklyPlans:   req.WeeklyPlans,
		Resources:     req.Resources,
		Notes:         req.Notes,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.store.SavePlan(plan); err != nil {
		text := s.notifier.Error(err, "Failed to save study plan")
		s.plans.SetError(text)
		writeError(w, http.StatusInternalServerError, text)
		return
	}
	s.plans.Prepend(plan)
	s.notifier.Success("Study plan created")
	writeJSON(w, http.StatusCreated, plan)
}

// handlePlanByID serves GET and DELETE on /api/plans/{id}. Opening a plan
// also records it as the selected one.
func (s *Server) handlePlanByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/plans/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	switch r.Method {
	case http.MethodGet:
		plan, ok := s.plans.FindByID(id)
		if !ok {
			plans, err := s.store.ListPlans()
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to load study plans")
				return
			}
			s.plans.ReplaceAll(plans)
			plan, ok = s.plans.FindByID(id)
		}
		if !ok {
			writeError(w, http.StatusNotFound, "plan not found")
			return
		}
		s.plans.SetSelected(id)
		writeJSON(w, http.StatusOK, plan)
	case http.MethodDelete:
		if err := s.store.DeletePlan(id); err != nil {
			text := s.notifier.Error(err, "Failed to delete study plan")
			writeError(w, http.StatusInternalServerError, text)
			return
		}
		s.plans.RemoveByID(id)
		s.notifier.Success("Study plan deleted")
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		methodNotAllowed(w)
	}
}
