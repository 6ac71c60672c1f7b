package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"itinerary-planner-service/internal/domain"
)

// Initialize the postgres schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createExperiencesQuery := `
	CREATE TABLE IF NOT EXISTS experiences (
		experience_id   TEXT PRIMARY KEY,
		name            TEXT NOT NULL,
		category        TEXT NOT NULL DEFAULT '',
		lat             DOUBLE PRECISION,
		lon             DOUBLE PRECISION,
		rating          DOUBLE PRECISION NOT NULL DEFAULT 0,
		tags            JSONB NOT NULL DEFAULT '[]',
		featured        BOOLEAN NOT NULL DEFAULT FALSE,
		verified        BOOLEAN NOT NULL DEFAULT FALSE,
		operating_hours JSONB NOT NULL DEFAULT '{}',
		admission_fee   DOUBLE PRECISION
	);
	`

	createItinerariesQuery := `
	CREATE TABLE IF NOT EXISTS itineraries (
		itinerary_id TEXT PRIMARY KEY,
		document     JSONB NOT NULL,
		updated_at   TIMESTAMPTZ NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_itineraries_updated_at
	ON itineraries(updated_at);
	`

	statements := []string{
		createExperiencesQuery,
		createItinerariesQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// ExperienceSeed is one catalog entry of the JSON seed file.
type ExperienceSeed struct {
	ExperienceID   string                `json:"experience_id"`
	Name           string                `json:"name"`
	Category       string                `json:"category"`
	Lat            *float64              `json:"lat"`
	Lon            *float64              `json:"lon"`
	Rating         float64               `json:"rating"`
	Tags           []string              `json:"tags"`
	Featured       bool                  `json:"featured"`
	Verified       bool                  `json:"verified"`
	OperatingHours domain.OperatingHours `json:"operating_hours"`
	AdmissionFee   *float64              `json:"admission_fee"`
}

// Populate the experience catalog from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed experiences: read %q: %w", jsonPath, err)
	}

	var data []ExperienceSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed experiences: parse json: %w", err)
	}

	for i, item := range data {
		if strings.TrimSpace(item.ExperienceID) == "" {
			return fmt.Errorf("seed experiences: empty experience_id at index %d", i+1)
		}
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("seed experiences: item %q: name cannot be empty", item.ExperienceID)
		}
		if item.Rating < 0 || item.Rating > 5 {
			return fmt.Errorf("seed experiences: item %q: rating %v outside [0,5]", item.ExperienceID, item.Rating)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed experiences: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO experiences (
		experience_id, name, category, lat, lon, rating,
		tags, featured, verified, operating_hours, admission_fee
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	ON CONFLICT (experience_id) DO UPDATE
	SET name = EXCLUDED.name,
		category = EXCLUDED.category,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		rating = EXCLUDED.rating,
		tags = EXCLUDED.tags,
		featured = EXCLUDED.featured,
		verified = EXCLUDED.verified,
		operating_hours = EXCLUDED.operating_hours,
		admission_fee = EXCLUDED.admission_fee;
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed experiences: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, item := range data {
		tags, err := json.Marshal(item.Tags)
		if err != nil {
			return fmt.Errorf("seed experiences: marshal tags for %q: %w", item.ExperienceID, err)
		}
		hours, err := json.Marshal(item.OperatingHours)
		if err != nil {
			return fmt.Errorf("seed experiences: marshal hours for %q: %w", item.ExperienceID, err)
		}

		_, err = stmt.Exec(
			item.ExperienceID, item.Name, item.Category, item.Lat, item.Lon, item.Rating,
			tags, item.Featured, item.Verified, hours, item.AdmissionFee,
		)
		if err != nil {
			return fmt.Errorf("seed experiences: insert experience_id=%s: %w", item.ExperienceID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed experiences: commit tx: %w", err)
	}

	return nil
}
