package theme

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GetThemes lists themes ordered by name. A non-empty search keeps only themes
// whose name contains it, ignoring case.
func (a *Accessor) GetThemes(ctx context.Context, search string) ([]Theme, error) {
	themes := []Theme{}

	query := `SELECT id, name, description, image FROM party_themes WHERE $1 = '' OR name ILIKE '%' || $1 || '%' ORDER BY name`
	needle := likeEscaper.Replace(strings.TrimSpace(search))
	rows, err := a.db.QueryContext(ctx, query, needle)
	if err != nil {
		return nil, fmt.Errorf("query context: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t Theme
		var description, image sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &description, &image); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		t.Description = description.String
		t.Image = image.String
		themes = append(themes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return themes, nil
}
