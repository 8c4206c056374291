package repository

import "github.com/jackc/pgx/v5"

// ErrNoRows is returned when a query or write targets a row that does not
// exist. Aliased so callers outside the data layer match on one error.
var ErrNoRows = pgx.ErrNoRows
