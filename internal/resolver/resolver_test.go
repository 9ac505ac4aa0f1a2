package resolver

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/hastla007/webradio-sub000/internal/domain"
)

func station(id, name, genreID string, active bool, subGenres ...string) domain.Station {
	return domain.Station{ID: id, Name: name, GenreID: genreID, IsActive: active, SubGenres: subGenres}
}

func ids(stations []domain.Station) []string {
	out := make([]string, 0, len(stations))
	for _, s := range stations {
		out = append(out, s.ID)
	}
	return out
}

func TestResolve_GenreRule(t *testing.T) {
	profile := &domain.ExportProfile{Name: "rock", GenreIDs: []string{"g-rock"}}
	stations := []domain.Station{
		station("s1", "Alpha Rock", "g-rock", true),
		station("s2", "Beta Jazz", "g-jazz", true),
		station("s3", "Gamma Rock", "g-rock", false), // inactive, not explicit
	}

	got := ids(Resolve(profile, stations))
	want := []string{"s1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() = %v, want %v", got, want)
	}
}

func TestResolve_ExplicitInclusionOverridesActiveFilter(t *testing.T) {
	inactive := station("s1", "Night Owl", "g-ambient", false)

	withExplicit := &domain.ExportProfile{Name: "p", StationIDs: []string{"s1"}}
	if got := ids(Resolve(withExplicit, []domain.Station{inactive})); !reflect.DeepEqual(got, []string{"s1"}) {
		t.Errorf("explicitly listed inactive station missing: got %v", got)
	}

	withoutExplicit := &domain.ExportProfile{Name: "p", GenreIDs: []string{"g-ambient"}}
	if got := Resolve(withoutExplicit, []domain.Station{inactive}); len(got) != 0 {
		t.Errorf("inactive station without explicit inclusion should be absent, got %v", ids(got))
	}
}

func TestResolve_SubGenreMatchIsCaseInsensitive(t *testing.T) {
	profile := &domain.ExportProfile{Name: "p", SubGenres: []string{"lo-fi"}}
	stations := []domain.Station{
		station("s1", "Chill Beats", "g-el", true, "Lo-Fi"),
		station("s2", "Loud Beats", "g-el", true, "Hardstyle"),
	}

	got := ids(Resolve(profile, stations))
	if !reflect.DeepEqual(got, []string{"s1"}) {
		t.Errorf("Resolve() = %v, want [s1]", got)
	}
}

func TestResolve_EmptyRulesMatchNothing(t *testing.T) {
	profile := &domain.ExportProfile{Name: "empty"}
	stations := []domain.Station{
		station("s1", "Alpha", "g1", true, "pop"),
		station("s2", "Beta", "g2", true),
	}

	if got := Resolve(profile, stations); len(got) != 0 {
		t.Errorf("empty rule sets must not match all, got %v", ids(got))
	}
}

func TestResolve_DeduplicatesAcrossRules(t *testing.T) {
	// s1 matches by explicit id, genre, AND sub-genre.
	profile := &domain.ExportProfile{
		Name:       "p",
		GenreIDs:   []string{"g1"},
		SubGenres:  []string{"pop"},
		StationIDs: []string{"s1"},
	}
	stations := []domain.Station{station("s1", "Alpha", "g1", true, "Pop")}

	got := Resolve(profile, stations)
	if len(got) != 1 {
		t.Errorf("station matched by multiple rules appeared %d times", len(got))
	}
}

func TestResolve_DeletedGenreYieldsNoMatches(t *testing.T) {
	profile := &domain.ExportProfile{Name: "p", GenreIDs: []string{"g-deleted"}}
	stations := []domain.Station{station("s1", "Alpha", "g1", true)}

	if got := Resolve(profile, stations); len(got) != 0 {
		t.Errorf("reference to a deleted genre should match nothing, got %v", ids(got))
	}
}

func TestResolve_IdempotentUnderInputPermutation(t *testing.T) {
	profile := &domain.ExportProfile{
		Name:       "mixed",
		GenreIDs:   []string{"g1", "g2"},
		SubGenres:  []string{"indie"},
		StationIDs: []string{"s7"},
	}
	stations := []domain.Station{
		station("s1", "Alpha", "g1", true),
		station("s2", "Beta", "g3", true, "Indie"),
		station("s3", "Gamma", "g2", true),
		station("s4", "Delta", "g3", true),
		station("s5", "Epsilon", "g1", false),
		station("s6", "Zeta", "g3", false, "indie"),
		station("s7", "Eta", "g9", false),
	}

	want := ids(Resolve(profile, stations))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]domain.Station, len(stations))
		copy(shuffled, stations)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := ids(Resolve(profile, shuffled))
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("permutation %d changed result: got %v, want %v", i, got, want)
		}
	}
}

func TestResolve_OutputIsNameSorted(t *testing.T) {
	profile := &domain.ExportProfile{Name: "p", GenreIDs: []string{"g1"}}
	stations := []domain.Station{
		station("s2", "Zulu", "g1", true),
		station("s1", "Alpha", "g1", true),
		station("s3", "Mike", "g1", true),
	}

	got := ids(Resolve(profile, stations))
	want := []string{"s1", "s3", "s2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() order = %v, want %v", got, want)
	}
}

func TestPreviewResolve(t *testing.T) {
	profile := &domain.ExportProfile{Name: "p", GenreIDs: []string{"g1"}, StationIDs: []string{"s3"}}
	stations := []domain.Station{
		station("s1", "Alpha", "g1", true),
		station("s2", "Beta", "g1", true),
		station("s3", "Gamma", "g2", false),
	}

	genres := []domain.Genre{{ID: "g1", Name: "Rock"}, {ID: "g2", Name: "Jazz"}}

	p := PreviewResolve(profile, stations, genres, 2)
	if p.StationCount != 3 {
		t.Errorf("StationCount = %d, want 3", p.StationCount)
	}
	if p.ActiveCount != 2 {
		t.Errorf("ActiveCount = %d, want 2", p.ActiveCount)
	}
	if len(p.SampleNames) != 2 {
		t.Errorf("SampleNames = %v, want 2 entries", p.SampleNames)
	}
	if len(p.UnknownGenreIDs) != 0 {
		t.Errorf("UnknownGenreIDs = %v, all rules reference live genres", p.UnknownGenreIDs)
	}
}

func TestPreviewResolve_FlagsDeletedGenres(t *testing.T) {
	profile := &domain.ExportProfile{Name: "p", GenreIDs: []string{"g1", "g-deleted"}}
	stations := []domain.Station{station("s1", "Alpha", "g1", true)}
	genres := []domain.Genre{{ID: "g1", Name: "Rock"}}

	p := PreviewResolve(profile, stations, genres, 10)
	if !reflect.DeepEqual(p.UnknownGenreIDs, []string{"g-deleted"}) {
		t.Errorf("UnknownGenreIDs = %v, want [g-deleted]", p.UnknownGenreIDs)
	}
}
