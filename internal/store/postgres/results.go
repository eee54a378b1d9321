package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spiffcs/sonar/internal/model"
	"github.com/spiffcs/sonar/internal/store"
)

// ListExistingResultUsernames implements store.Store.
func (db *DB) ListExistingResultUsernames(ctx context.Context, briefID string) ([]string, error) {
	rows, err := db.Pool.Query(ctx, `SELECT username FROM sonar_results WHERE brief_id = $1`, briefID)
	if err != nil {
		return nil, fmt.Errorf("list usernames for brief %s: %w", briefID, err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan usernames: %w", err)
	}
	return names, nil
}

// InsertResult implements store.Store. Duplicates of (brief_id,
// lower(username)) are ignored and reported as not inserted.
func (db *DB) InsertResult(ctx context.Context, briefID string, c model.ScoredCandidate, searchDescription string) (bool, error) {
	r := model.NewSonarResult(briefID, c)
	r.SearchDescription = searchDescription

	tag, err := db.Pool.Exec(ctx, `
        INSERT INTO sonar_results (
            brief_id, username, display_name, bio, location, score,
            match_reasons, concerns, languages, topics, activity_level,
            followers, public_repos, total_stars, account_age_years, signals,
            search_description, status
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
        ON CONFLICT (brief_id, (lower(username))) DO NOTHING
    `,
		r.BriefID, r.Username, r.DisplayName, r.Bio, r.Location, r.Score,
		nonNil(r.MatchReasons), nonNil(r.Concerns), r.Languages, nonNil(r.Topics), string(r.ActivityLevel),
		r.Followers, r.PublicRepos, r.TotalStars, r.AccountAgeYears, r.Signals,
		r.SearchDescription, string(r.Status),
	)
	if err != nil {
		return false, fmt.Errorf("insert result %s: %w", c.Username, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListResults implements store.Store.
func (db *DB) ListResults(ctx context.Context, briefID string, filter store.ResultFilter) ([]model.SonarResult, error) {
	query, args := resultsQuery(briefID, filter)
	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results for brief %s: %w", briefID, err)
	}
	results, err := pgx.CollectRows(rows, scanResult)
	if err != nil {
		return nil, fmt.Errorf("scan results: %w", err)
	}
	return results, nil
}

const resultColumns = `id, brief_id, username, display_name, bio, location, score,
       match_reasons, concerns, languages, topics, activity_level,
       followers, public_repos, total_stars, account_age_years, signals,
       search_description, status, created_at`

func resultsQuery(briefID string, filter store.ResultFilter) (string, []any) {
	where := []string{"brief_id = $1"}
	args := []any{briefID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.Since.IsZero() {
		args = append(args, filter.Since)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	query := "SELECT " + resultColumns + " FROM sonar_results WHERE " +
		strings.Join(where, " AND ") + " ORDER BY score DESC, created_at ASC"
	return query, args
}

func scanResult(row pgx.CollectableRow) (model.SonarResult, error) {
	var (
		r        model.SonarResult
		activity string
		status   string
	)
	err := row.Scan(
		&r.ID, &r.BriefID, &r.Username, &r.DisplayName, &r.Bio, &r.Location, &r.Score,
		&r.MatchReasons, &r.Concerns, &r.Languages, &r.Topics, &activity,
		&r.Followers, &r.PublicRepos, &r.TotalStars, &r.AccountAgeYears, &r.Signals,
		&r.SearchDescription, &status, &r.CreatedAt,
	)
	r.ActivityLevel = model.ActivityLevel(activity)
	r.Status = model.ResultStatus(status)
	return r, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
