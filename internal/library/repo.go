package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"upnext/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const itemColumns = `id, title, type, status, rating, progress, description, review, notes,
	universe, series, series_number, cover_url, is_hidden,
	authors, alternate_titles, abbreviations, no_abbreviations, tags, external_links,
	children, totals, override_totals, created_at, updated_at`

const itemSelectColumns = itemColumns + `, cover_image IS NOT NULL`

// Upsert inserts or updates a media item. List-valued fields are stored
// as JSON text columns, mirroring the original database layout.
func (r *Repo) Upsert(ctx context.Context, item models.MediaItem) error {
	authors, err := marshalJSON(item.Authors)
	if err != nil {
		return err
	}
	altTitles, err := marshalJSON(item.AlternateTitles)
	if err != nil {
		return err
	}
	abbrevs, err := marshalJSON(item.Abbreviations)
	if err != nil {
		return err
	}
	tags, err := marshalJSON(item.Tags)
	if err != nil {
		return err
	}
	links, err := marshalJSON(item.ExternalLinks)
	if err != nil {
		return err
	}
	children, err := marshalJSON(item.Children)
	if err != nil {
		return err
	}
	totals, err := marshalJSON(item.Totals)
	if err != nil {
		return err
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO media_items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			type = excluded.type,
			status = excluded.status,
			rating = excluded.rating,
			progress = excluded.progress,
			description = excluded.description,
			review = excluded.review,
			notes = excluded.notes,
			universe = excluded.universe,
			series = excluded.series,
			series_number = excluded.series_number,
			cover_url = excluded.cover_url,
			is_hidden = excluded.is_hidden,
			authors = excluded.authors,
			alternate_titles = excluded.alternate_titles,
			abbreviations = excluded.abbreviations,
			no_abbreviations = excluded.no_abbreviations,
			tags = excluded.tags,
			external_links = excluded.external_links,
			children = excluded.children,
			totals = excluded.totals,
			override_totals = excluded.override_totals,
			updated_at = excluded.updated_at
	`,
		item.ID, item.Title, string(item.Type), string(item.Status), item.Rating,
		item.Progress, item.Description, item.Review, item.Notes,
		item.Universe, item.Series, item.SeriesNumber, item.CoverURL, item.IsHidden,
		authors, altTitles, abbrevs, item.NoAbbreviations, tags, links,
		children, totals, item.OverrideTotals,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert media item: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (*models.MediaItem, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+itemSelectColumns+`
		FROM media_items
		WHERE id = ?
	`, id)

	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get media item: %w", err)
	}
	return item, nil
}

// List returns all items sorted by most recently updated.
func (r *Repo) List(ctx context.Context) ([]models.MediaItem, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+itemSelectColumns+`
		FROM media_items
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list media items: %w", err)
	}
	defer rows.Close()

	out := make([]models.MediaItem, 0, 64)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media item: %w", err)
		}
		out = append(out, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM media_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete media item: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// SetCover stores cover image bytes on the row. Passing nil data clears
// the stored image.
func (r *Repo) SetCover(ctx context.Context, id string, data []byte, mime string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE media_items
		SET cover_image = ?, cover_mime = ?, cover_url = '', updated_at = ?
		WHERE id = ?
	`, data, mime, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set cover: %w", err)
	}
	return nil
}

// GetCover returns the stored cover bytes and mime type, or nil when
// the item has no stored image.
func (r *Repo) GetCover(ctx context.Context, id string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := r.DB.QueryRowContext(ctx, `
		SELECT cover_image, cover_mime FROM media_items WHERE id = ?
	`, id).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("get cover: %w", err)
	}
	return data, mime, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.MediaItem, error) {
	var it models.MediaItem
	var typ, status string
	var authors, altTitles, abbrevs, tags, links, children, totals string

	err := row.Scan(
		&it.ID, &it.Title, &typ, &status, &it.Rating,
		&it.Progress, &it.Description, &it.Review, &it.Notes,
		&it.Universe, &it.Series, &it.SeriesNumber, &it.CoverURL, &it.IsHidden,
		&authors, &altTitles, &abbrevs, &it.NoAbbreviations, &tags, &links,
		&children, &totals, &it.OverrideTotals,
		&it.CreatedAt, &it.UpdatedAt, &it.HasCoverImage,
	)
	if err != nil {
		return nil, err
	}

	it.Type = models.MediaType(typ)
	it.Status = models.Status(status)
	if err := unmarshalJSON(authors, &it.Authors); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(altTitles, &it.AlternateTitles); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(abbrevs, &it.Abbreviations); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(tags, &it.Tags); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(links, &it.ExternalLinks); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(children, &it.Children); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(totals, &it.Totals); err != nil {
		return nil, err
	}
	return &it, nil
}

func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal json column: %w", err)
	}
	return string(b), nil
}

func unmarshalJSON(s string, v any) error {
	if s == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return fmt.Errorf("unmarshal json column: %w", err)
	}
	return nil
}
