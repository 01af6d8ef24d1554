package testutils

import (
	"strings"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// RecordID parses a "table:id" string into a RecordID. Test fixtures use
// readable IDs like "user:alice".
func RecordID(s string) *surrealmodels.RecordID {
	table, id, _ := strings.Cut(s, ":")
	rid := surrealmodels.NewRecordID(table, id)
	return &rid
}
