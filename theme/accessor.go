package theme

import "database/sql"

// Accessor is the DB layer entrypoint for party theme queries.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}
