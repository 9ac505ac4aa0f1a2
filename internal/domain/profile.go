package domain

import (
	"fmt"
	"time"
)

// ExportInterval enumerates the supported auto-export cadences.
type ExportInterval string

const (
	IntervalDaily   ExportInterval = "daily"
	IntervalWeekly  ExportInterval = "weekly"
	IntervalMonthly ExportInterval = "monthly"
)

// Valid reports whether the interval is one of the supported cadences.
func (i ExportInterval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly:
		return true
	}
	return false
}

// AutoExportConfig defines when automatic delivery fires for a profile.
// Time is a local wall-clock "HH:MM" value.
type AutoExportConfig struct {
	Enabled  bool           `json:"enabled" db:"auto_export_enabled"`
	Interval ExportInterval `json:"interval" db:"auto_export_interval"`
	Time     string         `json:"time" db:"auto_export_time"`
}

// Validate checks the cadence configuration. A disabled config is always
// valid regardless of the other fields.
func (c AutoExportConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if !c.Interval.Valid() {
		return fmt.Errorf("auto export: unknown interval %q", c.Interval)
	}
	if _, err := time.Parse("15:04", c.Time); err != nil {
		return fmt.Errorf("auto export: time %q is not HH:MM", c.Time)
	}
	return nil
}

// ExportProfile is a named rule set selecting a subset of the station
// catalogue for distribution. A station is a member if it is explicitly
// listed in StationIDs, or if it is active and matches by genre or by a
// case-insensitive sub-genre tag.
//
// At most one profile may reference a given PlayerID at any time. That
// invariant is enforced transactionally by the profile CRUD layer; the
// export engine assumes it holds.
type ExportProfile struct {
	ID         string           `json:"id" db:"id"`
	Name       string           `json:"name" db:"name"`
	GenreIDs   []string         `json:"genre_ids" db:"genre_ids"`
	SubGenres  []string         `json:"sub_genres" db:"sub_genres"`
	StationIDs []string         `json:"station_ids" db:"station_ids"`
	PlayerID   *string          `json:"player_id" db:"player_id"`
	AutoExport AutoExportConfig `json:"auto_export"`
	CreatedAt  time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at" db:"updated_at"`
}

// Validate checks the profile's invariants.
func (p *ExportProfile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is required")
	}
	return p.AutoExport.Validate()
}

// FTPProtocol selects the remote transfer variant for a player app.
type FTPProtocol string

const (
	ProtocolFTP  FTPProtocol = "ftp"  // plain FTP
	ProtocolFTPS FTPProtocol = "ftps" // FTP over explicit TLS
)

// PlayerApp is the consumer application a profile delivers to. It owns the
// remote delivery credentials; FTPPassword holds vault ciphertext, never
// plaintext.
type PlayerApp struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	FTPEnabled   bool        `json:"ftp_enabled" db:"ftp_enabled"`
	FTPServer    string      `json:"ftp_server" db:"ftp_server"`
	FTPUsername  string      `json:"ftp_username" db:"ftp_username"`
	FTPPassword  string      `json:"-" db:"ftp_password"`
	FTPProtocol  FTPProtocol `json:"ftp_protocol" db:"ftp_protocol"`
	FTPTimeoutMs int         `json:"ftp_timeout_ms" db:"ftp_timeout_ms"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// HasCompleteCredentials reports whether the player carries everything the
// remote delivery step needs. The password is checked for presence only;
// whether it decrypts is the vault's concern.
func (p *PlayerApp) HasCompleteCredentials() bool {
	return p.FTPServer != "" && p.FTPUsername != "" && p.FTPPassword != ""
}
