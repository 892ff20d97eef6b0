package pathway

import (
	"context"
	"errors"
	"sort"
	"testing"
)

// stubSource serves canned resources or a fixed error.
type stubSource struct {
	name string
	res  []Resource
	err  error
}

func (s stubSource) Name() string { return s.name }
func (s stubSource) Lookup(_ context.Context, _ string, _ int) ([]Resource, error) {
	return s.res, s.err
}

func TestResourcesForNeverEmpty(t *testing.T) {
	tests := []struct {
		name   string
		binder *Binder
	}{
		{"no sources", NewBinder()},
		{"failing source", NewBinder(stubSource{name: "broken", err: errors.New("boom")})},
		{"empty source", NewBinder(stubSource{name: "empty"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.binder.ResourcesFor(context.Background(), "terraform", 3)
			if len(got) == 0 {
				t.Fatal("expected fallback resources, got none")
			}
			types := make(map[ResourceType]bool)
			for _, r := range got {
				if r.URL == "" || r.Title == "" {
					t.Errorf("incomplete fallback resource: %+v", r)
				}
				if r.Skill != "terraform" {
					t.Errorf("resource skill = %q, want terraform", r.Skill)
				}
				types[r.Type] = true
			}
			if len(types) < 3 {
				t.Errorf("fallback types = %v, want course, video and documentation", types)
			}
		})
	}
}

func TestResourcesForBlankSkill(t *testing.T) {
	if got := NewBinder().ResourcesFor(context.Background(), "  ", 3); got != nil {
		t.Errorf("blank skill should yield nil, got %v", got)
	}
}

func TestSelectBalancedSortsByRating(t *testing.T) {
	in := []Resource{
		{Title: "a", Type: TypeCourse, Rating: 2},
		{Title: "b", Type: TypeCourse, Rating: 9},
		{Title: "c", Type: TypeCourse},
		{Title: "d", Type: TypeCourse, Rating: 5},
	}
	got := selectBalanced(in, 10)
	if len(got) != 4 {
		t.Fatalf("lost resources: %v", got)
	}
	if !sort.SliceIsSorted(got, func(i, j int) bool { return got[i].Rating > got[j].Rating }) {
		t.Errorf("single-type selection not sorted by rating desc: %v", got)
	}
	if got[len(got)-1].Title != "c" {
		t.Errorf("missing rating should sort last, got %v", got)
	}
}

func TestSelectBalancedMixedTypesStaySorted(t *testing.T) {
	in := []Resource{
		{Title: "c1", Type: TypeCourse, Rating: 6},
		{Title: "v1", Type: TypeVideo, Rating: 9},
		{Title: "v2", Type: TypeVideo, Rating: 8},
		{Title: "c2", Type: TypeCourse, Rating: 1},
	}
	got := selectBalanced(in, 3)
	if len(got) != 3 {
		t.Fatalf("got %d resources, want 3: %v", len(got), got)
	}
	for i, want := range []string{"v1", "v2", "c1"} {
		if got[i].Title != want {
			t.Fatalf("position %d = %q, want %q (full: %v)", i, got[i].Title, want, got)
		}
	}
	types := map[ResourceType]bool{}
	for _, r := range got {
		types[r.Type] = true
	}
	if !types[TypeCourse] || !types[TypeVideo] {
		t.Errorf("selection lost a type: %v", got)
	}
}

func TestSelectBalancedRemainderByRating(t *testing.T) {
	in := []Resource{
		{Title: "c1", Type: TypeCourse, Rating: 5},
		{Title: "c2", Type: TypeCourse, Rating: 1},
		{Title: "v1", Type: TypeVideo, Rating: 4},
		{Title: "v2", Type: TypeVideo, Rating: 3},
	}
	got := selectBalanced(in, 3)
	if len(got) != 3 {
		t.Fatalf("got %d resources, want 3: %v", len(got), got)
	}
	for i, want := range []string{"c1", "v1", "v2"} {
		if got[i].Title != want {
			t.Fatalf("position %d = %q, want %q: remainder must go to the best-rated leftover", i, got[i].Title, want)
		}
	}
}

func TestResourcesForRatingOrderAcrossSources(t *testing.T) {
	b := NewBinder(
		stubSource{name: "videos", res: []Resource{
			{Title: "deep dive", URL: "https://v1", Type: TypeVideo, Rating: 9},
			{Title: "walkthrough", URL: "https://v2", Type: TypeVideo, Rating: 8},
		}},
		stubSource{name: "courses", res: []Resource{
			{Title: "foundations", URL: "https://c1", Type: TypeCourse, Rating: 6},
			{Title: "intro", URL: "https://c2", Type: TypeCourse, Rating: 1},
		}},
	)
	got := b.ResourcesFor(context.Background(), "rust", 3)
	if len(got) != 3 {
		t.Fatalf("got %d resources, want 3: %v", len(got), got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Rating > got[i-1].Rating {
			t.Fatalf("not sorted by non-increasing rating at %d: %v > %v", i, got[i].Rating, got[i-1].Rating)
		}
	}
	for i, want := range []string{"deep dive", "walkthrough", "foundations"} {
		if got[i].Title != want {
			t.Fatalf("position %d = %q, want %q (full: %v)", i, got[i].Title, want, got)
		}
	}
}

func TestResourcesForMergesSources(t *testing.T) {
	b := NewBinder(
		stubSource{name: "videos", res: []Resource{{Title: "v", URL: "https://v", Type: TypeVideo, Rating: 4}}},
		stubSource{name: "courses", res: []Resource{{Title: "c", URL: "https://c", Type: TypeCourse, Rating: 5}}},
		stubSource{name: "broken", err: errors.New("down")},
	)
	got := b.ResourcesFor(context.Background(), "rust", 10)
	if len(got) != 2 {
		t.Fatalf("got %d resources, want 2: %v", len(got), got)
	}
	for _, r := range got {
		if r.Skill != "rust" {
			t.Errorf("skill not stamped: %+v", r)
		}
	}
}
