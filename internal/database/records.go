package database

import (
	"fmt"
	"strings"

	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// parseRecordID converts a "table:id" string into a RecordID, defaulting to
// the given table when the string carries no table prefix.
func parseRecordID(table, id string) (surrealmodels.RecordID, error) {
	if id == "" {
		return surrealmodels.RecordID{}, fmt.Errorf("empty record id")
	}

	parts := strings.SplitN(id, ":", 2)
	if len(parts) == 2 {
		return surrealmodels.NewRecordID(parts[0], parts[1]), nil
	}
	return surrealmodels.NewRecordID(table, id), nil
}
