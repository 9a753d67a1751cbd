package reservation

import (
	"database/sql"
)

// Accessor reads and writes reservation records.
type Accessor struct {
	db *sql.DB
}

func NewAccessor(db *sql.DB) *Accessor {
	return &Accessor{db: db}
}
