package models

import (
	"time"
)

type Submitter struct {
	ID        int64     `db:"id" json:"id"`
	FullName  string    `db:"full_name" json:"full_name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	Picks     []Pick    `db:"-" json:"picks"`
}

// Pick keeps its numbers in canonical form: ascending, comma-joined.
type Pick struct {
	ID          int64     `db:"id" json:"id"`
	SubmitterID int64     `db:"submitter_id" json:"submitter_id"`
	Numbers     string    `db:"numbers" json:"numbers"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type Stats struct {
	Submitters int64 `db:"submitters" json:"submitters"`
	Picks      int64 `db:"picks" json:"picks"`
}
