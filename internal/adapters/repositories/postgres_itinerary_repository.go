package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"itinerary-planner-service/internal/domain"
	"itinerary-planner-service/internal/platform/obs"
	"itinerary-planner-service/internal/ports"
)

// Postgres-backed implementation of the ItineraryRepository port. Each
// itinerary is stored as one JSONB document, so a save is a single upsert
// and can never leave a half-written schedule behind.
type PostgresItineraryRepository struct {
	DB *sql.DB

	// Experiences resolves experience references while decoding documents.
	Experiences ports.ExperienceRepository
}

func NewPostgresItineraryRepository(db *sql.DB, experiences ports.ExperienceRepository) *PostgresItineraryRepository {
	return &PostgresItineraryRepository{DB: db, Experiences: experiences}
}

func (r *PostgresItineraryRepository) Save(ctx context.Context, it *domain.Itinerary) (err error) {
	defer obs.Time(ctx, "itinerary.repo.Save")(&err)

	if r.DB == nil {
		return errors.New("itinerary repository: DB is nil")
	}

	doc, err := domain.MarshalItinerary(it)
	if err != nil {
		return fmt.Errorf("save itinerary: %w", err)
	}

	query := `
	INSERT INTO itineraries (itinerary_id, document, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (itinerary_id) DO UPDATE
	SET document = EXCLUDED.document,
		updated_at = EXCLUDED.updated_at;
	`
	if _, err := r.DB.ExecContext(ctx, query, it.ID, doc, it.UpdatedAt); err != nil {
		return fmt.Errorf("save itinerary %s: upsert: %w", it.ID, err)
	}

	return nil
}

func (r *PostgresItineraryRepository) Load(ctx context.Context, id string) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "itinerary.repo.Load")(&err)

	if r.DB == nil {
		return nil, errors.New("itinerary repository: DB is nil")
	}

	var doc []byte
	query := `SELECT document FROM itineraries WHERE itinerary_id = $1;`
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("load itinerary %q: %w", id, domain.ErrItineraryNotFound)
		}
		return nil, fmt.Errorf("load itinerary %q: %w", id, err)
	}

	it, err := domain.UnmarshalItinerary(doc, r.lookup(ctx))
	if err != nil {
		return nil, fmt.Errorf("load itinerary %q: %w", id, err)
	}
	return it, nil
}

func (r *PostgresItineraryRepository) LoadAll(ctx context.Context) (_ []*domain.Itinerary, err error) {
	defer obs.Time(ctx, "itinerary.repo.LoadAll")(&err)

	if r.DB == nil {
		return nil, errors.New("itinerary repository: DB is nil")
	}

	query := `SELECT document FROM itineraries ORDER BY updated_at;`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load all itineraries: query: %w", err)
	}
	defer rows.Close()

	lookup := r.lookup(ctx)
	out := make([]*domain.Itinerary, 0, 16)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("load all itineraries: scan row: %w", err)
		}
		it, err := domain.UnmarshalItinerary(doc, lookup)
		if err != nil {
			return nil, fmt.Errorf("load all itineraries: %w", err)
		}
		out = append(out, it)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load all itineraries: row iteration: %w", err)
	}

	return out, nil
}

func (r *PostgresItineraryRepository) Delete(ctx context.Context, id string) (err error) {
	defer obs.Time(ctx, "itinerary.repo.Delete")(&err)

	if r.DB == nil {
		return errors.New("itinerary repository: DB is nil")
	}

	query := `DELETE FROM itineraries WHERE itinerary_id = $1;`
	if _, err := r.DB.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete itinerary %q: %w", id, err)
	}
	return nil
}

func (r *PostgresItineraryRepository) lookup(ctx context.Context) domain.ExperienceLookup {
	return func(id string) (*domain.Experience, error) {
		return r.Experiences.GetExperience(ctx, id)
	}
}
