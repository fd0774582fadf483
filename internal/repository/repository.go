package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/herroute/internal/models"
	"github.com/UnknownOlympus/herroute/internal/streets"
)

// Repository reads scored streets from the street_scores table.
type Repository struct {
	db  Database
	log *slog.Logger
}

// NewRepository creates a new instance of Repository with the provided Database.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

const fetchStreetsQuery = `
	SELECT street_id, street_name, color, average_crime_score, coordinates
	FROM street_scores
	ORDER BY street_id;
`

// FetchStreets returns every street in the table. The coordinates column holds
// a JSONB array of {latitude, longitude} objects. Like the HTTP source, a
// single unusable row rejects the whole result.
func (r *Repository) FetchStreets(ctx context.Context) ([]models.StreetRecord, error) {
	rows, err := r.db.Query(ctx, fetchStreetsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query street scores: %w", err)
	}
	defer rows.Close()

	records := []models.StreetRecord{}
	for rows.Next() {
		var (
			rec  models.StreetRecord
			path []byte
		)
		if errScan := rows.Scan(&rec.ID, &rec.Name, &rec.Color, &rec.Score, &path); errScan != nil {
			return nil, fmt.Errorf("failed to scan street score: %w", errScan)
		}

		if errJSON := json.Unmarshal(path, &rec.Path); errJSON != nil {
			return nil, fmt.Errorf("%w: street %s coordinates: %w", streets.ErrMalformedPayload, rec.ID, errJSON)
		}
		if errValid := rec.Validate(); errValid != nil {
			return nil, fmt.Errorf("%w: %w", streets.ErrMalformedPayload, errValid)
		}

		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Street scores read from database", "count", len(records))

	return records, nil
}
