package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spiffcs/sonar/internal/model"
	"github.com/spiffcs/sonar/internal/store"
)

// ReadBrief implements store.Store.
func (db *DB) ReadBrief(ctx context.Context, id, ownerID string) (*model.Brief, error) {
	var b model.Brief
	err := db.Pool.QueryRow(ctx, `
        SELECT id, owner_id, description, required_skills, preferred_location,
               project_type, search_frequency, last_search_at, is_active, created_at
        FROM briefs
        WHERE id = $1 AND owner_id = $2
    `, id, ownerID).Scan(
		&b.ID, &b.OwnerID, &b.Description, &b.RequiredSkills, &b.PreferredLocation,
		&b.ProjectType, &b.SearchFrequency, &b.LastSearchAt, &b.IsActive, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read brief %s: %w", id, err)
	}
	return &b, nil
}

// MarkBriefSearched implements store.Store.
func (db *DB) MarkBriefSearched(ctx context.Context, briefID string) error {
	tag, err := db.Pool.Exec(ctx, `UPDATE briefs SET last_search_at = now() WHERE id = $1`, briefID)
	if err != nil {
		return fmt.Errorf("mark brief %s searched: %w", briefID, err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// CreateBrief inserts b and returns it with its generated ID.
func (db *DB) CreateBrief(ctx context.Context, b model.Brief) (*model.Brief, error) {
	if b.RequiredSkills == nil {
		b.RequiredSkills = []string{}
	}
	err := db.Pool.QueryRow(ctx, `
        INSERT INTO briefs (owner_id, description, required_skills, preferred_location,
                            project_type, search_frequency, is_active)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at
    `, b.OwnerID, b.Description, b.RequiredSkills, b.PreferredLocation,
		b.ProjectType, b.SearchFrequency, b.IsActive).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create brief: %w", err)
	}
	return &b, nil
}
