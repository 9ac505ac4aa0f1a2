// Package resolver computes export profile membership.
//
// Resolution is a pure function over the in-memory catalogue: no I/O, no
// clock, no ordering dependence on the input beyond first-seen position.
// Callers load stations and genres through the repository layer and pass
// them in.
package resolver

import (
	"sort"
	"strings"

	"github.com/hastla007/webradio-sub000/internal/domain"
)

// Resolve returns the deduplicated set of stations matching the profile's
// rules.
//
// A station is included if:
//   - its ID appears in profile.StationIDs (explicit inclusion, independent
//     of the active flag), or
//   - it is currently active AND (its genre is in profile.GenreIDs, or any of
//     its sub-genre tags case-insensitively matches an entry in
//     profile.SubGenres).
//
// Empty rule sets contribute nothing; there is no implicit match-all. The
// output is ordered by station name (ties broken by ID) and each station
// appears at most once regardless of how many rules matched it.
func Resolve(profile *domain.ExportProfile, stations []domain.Station) []domain.Station {
	explicit := toSet(profile.StationIDs)
	genreIDs := toSet(profile.GenreIDs)
	subGenres := toLowerSet(profile.SubGenres)

	// Name-sorted working copy so output order is stable under any input
	// permutation.
	ordered := make([]domain.Station, len(stations))
	copy(ordered, stations)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].Name != ordered[j].Name {
			return ordered[i].Name < ordered[j].Name
		}
		return ordered[i].ID < ordered[j].ID
	})

	seen := make(map[string]struct{}, len(ordered))
	var out []domain.Station
	for _, st := range ordered {
		if _, dup := seen[st.ID]; dup {
			continue
		}
		if !matches(&st, explicit, genreIDs, subGenres) {
			continue
		}
		seen[st.ID] = struct{}{}
		out = append(out, st)
	}
	return out
}

func matches(st *domain.Station, explicit, genreIDs map[string]struct{}, subGenres map[string]struct{}) bool {
	if _, ok := explicit[st.ID]; ok {
		// Explicit inclusion overrides the active-status filter.
		return true
	}
	if !st.IsActive {
		return false
	}
	if _, ok := genreIDs[st.GenreID]; ok {
		return true
	}
	for _, tag := range st.SubGenres {
		if _, ok := subGenres[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}

func toSet(vals []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if v == "" {
			continue
		}
		m[v] = struct{}{}
	}
	return m
}

func toLowerSet(vals []string) map[string]struct{} {
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		if v == "" {
			continue
		}
		m[strings.ToLower(v)] = struct{}{}
	}
	return m
}

// Preview summarizes a resolution for the admin UI without building an
// artifact. UnknownGenreIDs lists profile genre rules that reference genres
// no longer in the catalogue, the usual reason a profile suddenly resolves
// to nothing.
type Preview struct {
	StationCount    int      `json:"station_count"`
	ActiveCount     int      `json:"active_count"`
	SampleNames     []string `json:"sample_names"`
	UnknownGenreIDs []string `json:"unknown_genre_ids,omitempty"`
}

// PreviewResolve resolves the profile and returns counts plus up to
// sampleLimit station names.
func PreviewResolve(profile *domain.ExportProfile, stations []domain.Station, genres []domain.Genre, sampleLimit int) Preview {
	resolved := Resolve(profile, stations)
	if sampleLimit <= 0 {
		sampleLimit = 10
	}

	p := Preview{StationCount: len(resolved)}
	for _, st := range resolved {
		if st.IsActive {
			p.ActiveCount++
		}
		if len(p.SampleNames) < sampleLimit {
			p.SampleNames = append(p.SampleNames, st.Name)
		}
	}

	known := make(map[string]struct{}, len(genres))
	for _, g := range genres {
		known[g.ID] = struct{}{}
	}
	for _, id := range profile.GenreIDs {
		if id == "" {
			continue
		}
		if _, ok := known[id]; !ok {
			p.UnknownGenreIDs = append(p.UnknownGenreIDs, id)
		}
	}
	return p
}
