package state

import (
	"testing"

	"neetgenie/pkg/domain"
)

func TestPrependInsertsAtFront(t *testing.T) {
	p := NewPlans()
	p.Prepend(domain.StudyPlan{ID: "p-1", Overview: "first"})
	p.Prepend(domain.StudyPlan{ID: "p-2", Overview: "second"})

	all := p.All()
	if len(all) != 2 || all[0].ID != "p-2" || all[1].ID != "p-1" {
		t.Fatalf("plans = %+v, want newest first", all)
	}
}

func TestRemoveByIDAndSelection(t *testing.T) {
	p := NewPlans()
	p.Prepend(domain.StudyPlan{ID: "p-1"})
	p.Prepend(domain.StudyPlan{ID: "p-2"})
	p.SetSelected("p-2")

	p.RemoveByID("p-2")

	if _, ok := p.FindByID("p-2"); ok {
		t.Fatalf("p-2 should be removed")
	}
	if _, ok := p.FindByID("p-1"); !ok {
		t.Fatalf("p-1 should survive")
	}
	if p.Selected() != "" {
		t.Fatalf("selection should clear when the selected plan is removed")
	}
}

func TestRemoveByIDMissingIsNoop(t *testing.T) {
	p := NewPlans()
	p.Prepend(domain.StudyPlan{ID: "p-1"})
	p.RemoveByID("missing")
	if len(p.All()) != 1 {
		t.Fatalf("removing a missing id should not change the collection")
	}
}

func TestReplaceAll(t *testing.T) {
	p := NewPlans()
	p.Prepend(domain.StudyPlan{ID: "old"})
	p.ReplaceAll([]domain.StudyPlan{{ID: "a"}, {ID: "b"}})
	all := p.All()
	if len(all) != 2 || all[0].ID != "a" {
		t.Fatalf("plans = %+v", all)
	}
}
