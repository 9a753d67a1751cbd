package theme_test

import (
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/mtzs0/kockabarlang-party-planner/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectQuery = `SELECT id, name, description, image FROM party_themes WHERE $1 = '' OR name ILIKE '%' || $1 || '%' ORDER BY name`

func TestGetThemes(t *testing.T) {
	t.Parallel()

	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "name", "description", "image"}).
			AddRow(uuid.NewString(), "Jégvarázs", "Frozen party", nil).
			AddRow(uuid.NewString(), "Minecraft", nil, "minecraft.png").
			AddRow(uuid.NewString(), "Mini Kalózok", "Pirates", "pirates.png")
	}

	t.Run("all themes", func(t *testing.T) {
		t.Parallel()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).WithArgs("").WillReturnRows(rows())

		themes, err := theme.NewAccessor(db).GetThemes(t.Context(), "")
		require.NoError(t, err)
		require.Len(t, themes, 3)
		assert.Equal(t, "minecraft.png", themes[1].Image)
		assert.Empty(t, themes[1].Description)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("search is passed to the database trimmed", func(t *testing.T) {
		t.Parallel()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs("MINI").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "image"}).
				AddRow(uuid.NewString(), "Mini Kalózok", "Pirates", "pirates.png"))

		themes, err := theme.NewAccessor(db).GetThemes(t.Context(), "  MINI ")
		require.NoError(t, err)
		require.Len(t, themes, 1)
		assert.Equal(t, "Mini Kalózok", themes[0].Name)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("pattern characters match literally", func(t *testing.T) {
		t.Parallel()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).
			WithArgs(`100\%\_a\\b`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "image"}))

		themes, err := theme.NewAccessor(db).GetThemes(t.Context(), `100%_a\b`)
		require.NoError(t, err)
		assert.Empty(t, themes)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query error", func(t *testing.T) {
		t.Parallel()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		mock.ExpectQuery(regexp.QuoteMeta(selectQuery)).WithArgs("").WillReturnError(errors.New("boom"))

		_, err = theme.NewAccessor(db).GetThemes(t.Context(), "")
		require.Error(t, err)
	})
}
