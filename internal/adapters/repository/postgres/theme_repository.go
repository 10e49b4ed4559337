package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/botornot/api/internal/core/ports"
)

type themeRepository struct {
	db *sql.DB
}

func NewThemeRepository(db *sql.DB) ports.ThemeRepository {
	return &themeRepository{
		db: db,
	}
}

func (r *themeRepository) ListThemes(ctx context.Context) ([]string, error) {
	query := `
		SELECT title
		FROM themes
		ORDER BY position ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query themes: %w", err)
	}
	defer rows.Close()

	var themes []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("failed to scan theme: %w", err)
		}
		themes = append(themes, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate themes: %w", err)
	}

	return themes, nil
}

// SaveThemes replaces the stored list, keeping positions contiguous from 1.
// Used by the seeding job, not by the server.
func SaveThemes(ctx context.Context, db *sql.DB, themes []string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM themes`); err != nil {
		return fmt.Errorf("failed to clear themes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO themes (position, title) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("failed to prepare theme statement: %w", err)
	}
	defer stmt.Close()

	for i, title := range themes {
		if _, err := stmt.ExecContext(ctx, i+1, title); err != nil {
			return fmt.Errorf("failed to insert theme %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
