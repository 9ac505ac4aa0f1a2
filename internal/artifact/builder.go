// Package artifact turns a resolved station set into the distributable
// station-list file consumed by player apps.
package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hastla007/webradio-sub000/internal/domain"
)

// ErrNoActiveStations signals that a profile's rules matched zero stations.
// An empty feed would silently blank out a live player app, so callers must
// treat this as a rejection, not a zero-result success.
var ErrNoActiveStations = errors.New("no stations matched the profile rules")

// FormatVersion is embedded in every payload so player apps can detect
// incompatible future changes.
const FormatVersion = 1

// Artifact is the built, ready-to-deliver representation of a resolved
// station set.
type Artifact struct {
	FileName     string
	Payload      []byte
	StationCount int
	ContentHash  string
}

// stationRecord is the per-station shape inside the payload. Field order is
// fixed by the struct so repeated builds of the same set are byte-identical.
type stationRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	StreamURL string   `json:"stream_url"`
	GenreID   string   `json:"genre_id,omitempty"`
	SubGenres []string `json:"sub_genres,omitempty"`
	Homepage  string   `json:"homepage,omitempty"`
	LogoURL   string   `json:"logo_url,omitempty"`
	Country   string   `json:"country,omitempty"`
	Language  string   `json:"language,omitempty"`
	Bitrate   int      `json:"bitrate,omitempty"`
	Codec     string   `json:"codec,omitempty"`
}

type payload struct {
	Version  int             `json:"version"`
	Profile  string          `json:"profile"`
	Count    int             `json:"count"`
	Stations []stationRecord `json:"stations"`
}

// Build produces the artifact for a resolved station set. The payload is
// canonical: stations sorted by name then ID, stable field order, no
// timestamps, so an unchanged station set reproduces the same bytes and the
// same file name.
func Build(stations []domain.Station, profile *domain.ExportProfile) (*Artifact, error) {
	if len(stations) == 0 {
		return nil, ErrNoActiveStations
	}

	records := make([]stationRecord, 0, len(stations))
	for _, st := range stations {
		records = append(records, stationRecord{
			ID:        st.ID,
			Name:      st.Name,
			StreamURL: st.StreamURL,
			GenreID:   st.GenreID,
			SubGenres: st.SubGenres,
			Homepage:  st.Homepage,
			LogoURL:   st.LogoURL,
			Country:   st.Country,
			Language:  st.Language,
			Bitrate:   st.Bitrate,
			Codec:     st.Codec,
		})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].Name != records[j].Name {
			return records[i].Name < records[j].Name
		}
		return records[i].ID < records[j].ID
	})

	data, err := json.MarshalIndent(payload{
		Version:  FormatVersion,
		Profile:  profile.Name,
		Count:    len(records),
		Stations: records,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal artifact: %w", err)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	return &Artifact{
		FileName:     fmt.Sprintf("%s_%s.json", Slug(profile.Name), hash[:8]),
		Payload:      data,
		StationCount: len(records),
		ContentHash:  hash,
	}, nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slug normalizes a profile name into a file-name-safe token.
// "Chill & Lounge (EU)" → "chill-lounge-eu"
func Slug(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "profile"
	}
	return s
}

// DecodePayload parses an artifact payload back into its station records.
// Used by round-trip tests and the report detail view.
func DecodePayload(data []byte) (profileName string, stations []domain.Station, err error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return "", nil, fmt.Errorf("decode artifact: %w", err)
	}
	out := make([]domain.Station, 0, len(p.Stations))
	for _, r := range p.Stations {
		out = append(out, domain.Station{
			ID:        r.ID,
			Name:      r.Name,
			StreamURL: r.StreamURL,
			GenreID:   r.GenreID,
			SubGenres: r.SubGenres,
			Homepage:  r.Homepage,
			LogoURL:   r.LogoURL,
			Country:   r.Country,
			Language:  r.Language,
			Bitrate:   r.Bitrate,
			Codec:     r.Codec,
		})
	}
	return p.Profile, out, nil
}
