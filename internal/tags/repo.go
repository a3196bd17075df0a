package tags

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tag is one entry of the global tag registry. Items reference tags by
// name; color and description live here.
type Tag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// palette holds the accent colors new tags cycle through, matching the
// SPA's tag chip colors.
var palette = []string{
	"#8b5cf6", "#ec4899", "#3b82f6", "#ef4444", "#f59e0b",
	"#10b981", "#06b6d4", "#f97316", "#84cc16", "#a855f7",
}

// ColorFor picks a deterministic palette color for a tag name, so the
// same tag gets the same color on every machine.
func ColorFor(name string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(name)))
	return palette[h.Sum32()%uint32(len(palette))]
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) List(ctx context.Context) ([]Tag, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, name, color, description, created_at
		FROM tags
		ORDER BY name COLLATE NOCASE
	`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Color, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) GetByName(ctx context.Context, name string) (*Tag, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, name, color, description, created_at
		FROM tags
		WHERE name = ?
	`, name)

	var t Tag
	if err := row.Scan(&t.ID, &t.Name, &t.Color, &t.Description, &t.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return &t, nil
}

// RegisterIfAbsent stores a tag the registry has not seen, generating
// its color. Already-known names are left untouched.
func (r *Repo) RegisterIfAbsent(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO tags (id, name, color, description, created_at)
		VALUES (?, ?, ?, '', ?)
		ON CONFLICT(name) DO NOTHING
	`, uuid.NewString(), name, ColorFor(name), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("register tag %q: %w", name, err)
	}
	return nil
}

// Update changes the color and/or description of an existing tag.
func (r *Repo) Update(ctx context.Context, name, color, description string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE tags SET color = ?, description = ? WHERE name = ?
	`, color, description, name)
	if err != nil {
		return false, fmt.Errorf("update tag %q: %w", name, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Delete(ctx context.Context, name string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM tags WHERE name = ?`, name)
	if err != nil {
		return false, fmt.Errorf("delete tag %q: %w", name, err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
