package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"curtail/internal/types"
)

func (d *Database) CountLinks(ctx context.Context) (int64, error) {
	var count int64
	if err := d.db.GetContext(ctx, &count, `SELECT COUNT(record_id) FROM links`); err != nil {
		return 0, err
	}
	return count, nil
}

// InsertLink stores a fully formed link in one statement. A duplicate short
// code yields ErrUniqueViolation; any other failure is returned as is.
func (d *Database) InsertLink(ctx context.Context, link types.Link) error {
	_, err := d.db.NamedExecContext(ctx,
		`INSERT INTO links (record_id, short_code, target)
		VALUES (:record_id, :short_code, :target)`, link)
	if err != nil {
		if isShortCodeViolation(err) {
			return fmt.Errorf("%w: %s", ErrUniqueViolation, link.ShortCode)
		}
		return err
	}
	return nil
}

func (d *Database) GetLink(ctx context.Context, shortCode string) (*types.Link, error) {
	var link types.Link
	err := d.db.GetContext(ctx, &link, d.db.Rebind(
		`SELECT record_id, short_code, target
		FROM links
		WHERE short_code = ?`), shortCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

// ListLinks returns every stored link in creation order. It reads the whole
// table and is meant for diagnostics, not for paging through production data.
func (d *Database) ListLinks(ctx context.Context) ([]types.Link, error) {
	links := make([]types.Link, 0)
	if err := d.db.SelectContext(ctx, &links,
		`SELECT record_id, short_code, target
		FROM links
		ORDER BY record_id`); err != nil {
		return nil, err
	}
	return links, nil
}
