package state

import (
	"reflect"
	"testing"

	"neetgenie/pkg/domain"
)

func sampleMaterials() []domain.StudyMaterial {
	pages := 120
	return []domain.StudyMaterial{
		{ID: 1, Title: "Ray Optics Notes", Subject: "Physics", Type: domain.MaterialNotes, Description: "Mirrors and lenses", Pages: &pages, Rating: 4.5},
		{ID: 2, Title: "Organic Chemistry Basics", Subject: "Chemistry", Type: domain.MaterialVideo, Description: "Nomenclature walkthrough", Duration: "42 min", Rating: 4.1},
		{ID: 3, Title: "Human Physiology", Subject: "Biology", Type: domain.MaterialNotes, Description: "Circulation and respiration", Rating: 4.8},
	}
}

func TestMergeFilterLeavesMaterialsUntouched(t *testing.T) {
	c := NewCatalog()
	c.ReplaceAll(sampleMaterials())
	before := c.Materials()

	search := "optics"
	c.MergeFilter(FilterPatch{Search: &search})

	got := c.Filter()
	want := domain.MaterialFilter{Subject: nil, Type: domain.FilterAll, Search: "optics"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filter = %+v, want %+v", got, want)
	}
	if !reflect.DeepEqual(c.Materials(), before) {
		t.Fatalf("materials changed by MergeFilter")
	}
}

func TestMergeFilterIsShallowMerge(t *testing.T) {
	c := NewCatalog()
	subject := "Physics"
	c.MergeFilter(FilterPatch{Subject: &subject, SubjectSet: true})
	video := domain.FilterVideo
	c.MergeFilter(FilterPatch{Type: &video})

	got := c.Filter()
	if got.Subject == nil || *got.Subject != "Physics" {
		t.Fatalf("subject lost across merges: %+v", got)
	}
	if got.Type != domain.FilterVideo {
		t.Fatalf("type = %q, want video", got.Type)
	}
}

func TestFilteredView(t *testing.T) {
	c := NewCatalog()
	c.ReplaceAll(sampleMaterials())

	notes := domain.FilterNotes
	c.MergeFilter(FilterPatch{Type: &notes})
	got := c.Filtered()
	if len(got) != 2 {
		t.Fatalf("notes filter matched %d, want 2", len(got))
	}

	search := "optics"
	c.MergeFilter(FilterPatch{Search: &search})
	got = c.Filtered()
	if len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("optics search = %+v, want only material 1", got)
	}

	subject := "Biology"
	c.MergeFilter(FilterPatch{Subject: &subject, SubjectSet: true})
	if got := c.Filtered(); len(got) != 0 {
		t.Fatalf("biology+optics should match nothing, got %+v", got)
	}
}
