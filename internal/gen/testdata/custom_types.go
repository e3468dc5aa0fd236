package testdata

import (
	"database/sql"

	"github.com/google/uuid"
)

type StringArray []string

type Status string

type Repository struct {
	ID       uuid.UUID `db:"id,primaryKey"`
	Name     string
	Topics   StringArray
	Status   Status
	Archived sql.NullTime
	Checksum [32]byte
	Owner    *User `rel:"belongs_to,foreign_key:owner_id"`
	Extra    map[string]any
	Hook     func()
	Payload  any
}
