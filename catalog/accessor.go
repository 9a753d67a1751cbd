package catalog

import (
	"database/sql"

	"go.uber.org/zap"
)

// Accessor is the DB layer entrypoint for the weekday slot catalog.
type Accessor struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewAccessor(db *sql.DB, logger *zap.Logger) *Accessor {
	return &Accessor{
		db:     db,
		logger: logger,
	}
}
