package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"itinerary-planner-service/internal/domain"
)

// Postgres-backed implementation of the ExperienceRepository port.
// The catalog is externally supplied and read-only to this service.
type PostgresExperienceRepository struct{ DB *sql.DB }

func NewPostgresExperienceRepository(db *sql.DB) *PostgresExperienceRepository {
	return &PostgresExperienceRepository{DB: db}
}

const experienceColumns = `
	experience_id, name, category, lat, lon, rating,
	tags, featured, verified, operating_hours, admission_fee
`

func (r *PostgresExperienceRepository) GetExperience(ctx context.Context, id string) (*domain.Experience, error) {
	if r.DB == nil {
		return nil, errors.New("experience repository: DB is nil")
	}

	query := `SELECT ` + experienceColumns + ` FROM experiences WHERE experience_id = $1;`
	exp, err := scanExperience(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get experience %q: %w", id, domain.ErrExperienceNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get experience %q: %w", id, err)
	}
	return exp, nil
}

func (r *PostgresExperienceRepository) ListExperiences(ctx context.Context) ([]*domain.Experience, error) {
	if r.DB == nil {
		return nil, errors.New("experience repository: DB is nil")
	}

	query := `SELECT ` + experienceColumns + ` FROM experiences ORDER BY experience_id;`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list experiences: query experiences table: %w", err)
	}
	defer rows.Close()

	experiences := make([]*domain.Experience, 0, 64)
	for rows.Next() {
		exp, err := scanExperience(rows)
		if err != nil {
			return nil, fmt.Errorf("list experiences: %w", err)
		}
		experiences = append(experiences, exp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list experiences: row iteration: %w", err)
	}

	return experiences, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExperience(row rowScanner) (*domain.Experience, error) {
	var (
		exp       domain.Experience
		lat, lon  sql.NullFloat64
		tagsJSON  []byte
		hoursJSON []byte
		fee       sql.NullFloat64
	)

	err := row.Scan(
		&exp.ID, &exp.Name, &exp.Category, &lat, &lon, &exp.Rating,
		&tagsJSON, &exp.Featured, &exp.Verified, &hoursJSON, &fee,
	)
	if err != nil {
		return nil, err
	}

	// Coordinates are nullable: an experience without geodata stays
	// schedulable but cannot be optimized or travel-checked.
	if lat.Valid && lon.Valid {
		exp.Location = &domain.Coordinates{Lat: lat.Float64, Lon: lon.Float64}
	}
	if fee.Valid {
		exp.AdmissionFee = &fee.Float64
	}

	if len(tagsJSON) > 0 {
		if err := json.Unmarshal(tagsJSON, &exp.Tags); err != nil {
			return nil, fmt.Errorf("scan experience %q: tags: %w", exp.ID, err)
		}
	}
	if len(hoursJSON) > 0 {
		if err := json.Unmarshal(hoursJSON, &exp.OperatingHours); err != nil {
			return nil, fmt.Errorf("scan experience %q: operating hours: %w", exp.ID, err)
		}
	}

	return &exp, nil
}
