package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/hastla007/webradio-sub000/internal/domain"
	"github.com/hastla007/webradio-sub000/internal/export"
)

func setupTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	return db, mock, func() { db.Close() }
}

func TestProfileRepo_ProfileNotFound(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM export_profiles WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewProfileRepo(db)
	_, err := repo.Profile(context.Background(), "missing")
	if !errors.Is(err, export.ErrProfileNotFound) {
		t.Errorf("want ErrProfileNotFound, got %v", err)
	}
}

func TestProfileRepo_ProfileScan(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "name", "genre_ids", "sub_genres", "station_ids", "player_id",
		"auto_export_enabled", "auto_export_interval", "auto_export_time",
		"created_at", "updated_at",
	}).AddRow(
		"p1", "Rock Feed", "{g1,g2}", "{lo-fi}", "{s9}", "player-1",
		true, "daily", "09:00", now, now,
	)

	mock.ExpectQuery("SELECT .* FROM export_profiles WHERE id").
		WithArgs("p1").
		WillReturnRows(rows)

	repo := NewProfileRepo(db)
	p, err := repo.Profile(context.Background(), "p1")
	if err != nil {
		t.Fatalf("Profile() error: %v", err)
	}

	if p.Name != "Rock Feed" {
		t.Errorf("name = %q", p.Name)
	}
	if len(p.GenreIDs) != 2 || p.GenreIDs[0] != "g1" {
		t.Errorf("genre ids = %v", p.GenreIDs)
	}
	if p.PlayerID == nil || *p.PlayerID != "player-1" {
		t.Errorf("player id = %v", p.PlayerID)
	}
	if p.AutoExport.Interval != domain.IntervalDaily || p.AutoExport.Time != "09:00" {
		t.Errorf("auto export = %+v", p.AutoExport)
	}
}

func TestReportRepo_Report(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO delivery_reports").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewReportRepo(db)
	err := repo.Report(context.Background(), &domain.DeliveryResult{
		RunID:           "run-1",
		ProfileID:       "p1",
		ProfileName:     "Rock Feed",
		Trigger:         domain.TriggerScheduled,
		Status:          domain.DeliveryPartial,
		StationCount:    12,
		Files:           []domain.DeliveredFile{{FileName: "rock-feed_ab12cd34.json"}},
		OutputDirectory: "exports",
		StartedAt:       time.Now(),
		FinishedAt:      time.Now(),
		Error:           "dial tcp: connection refused",
	}, "Export \"Rock Feed\" partial: 12 stations")
	if err != nil {
		t.Fatalf("Report() error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReportRepo_List(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"run_id", "profile_id", "profile_name", "trigger", "status", "station_count",
		"files", "output_directory", "summary", "error", "started_at", "finished_at",
	}).AddRow(
		"run-1", "p1", "Rock Feed", "manual", "success", 12,
		[]byte(`[{"file_name":"rock-feed_ab12cd34.json","ftp_uploaded":true}]`),
		"exports", "ok", "", now, now,
	)

	mock.ExpectQuery("SELECT .* FROM delivery_reports WHERE profile_id").
		WithArgs("p1").
		WillReturnRows(rows)

	repo := NewReportRepo(db)
	out, err := repo.List(context.Background(), "p1", 10)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rows", len(out))
	}
	if !out[0].Files[0].FTPUploaded {
		t.Error("files JSON not decoded")
	}
}

func TestRunStore_CompletedAndMark(t *testing.T) {
	db, mock, cleanup := setupTestDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("p1", "2026-08-24", "fp").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	mock.ExpectExec("INSERT INTO export_runs").
		WillReturnResult(sqlmock.NewResult(0, 1))

	store := NewRunStore(db)
	done, err := store.Completed(context.Background(), "p1", "2026-08-24", "fp")
	if err != nil {
		t.Fatalf("Completed() error: %v", err)
	}
	if done {
		t.Error("Completed() = true for empty store")
	}

	if err := store.MarkCompleted(context.Background(), "p1", "2026-08-24", "fp", domain.DeliverySuccess, time.Now()); err != nil {
		t.Fatalf("MarkCompleted() error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
