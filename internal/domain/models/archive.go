// internal/domain/models/archive.go
package models

import (
	"encoding/json"
	"time"
)

// ArchiveRecord is the immutable snapshot written before any soft delete.
// DeletedData holds the entity exactly as it was at deletion time; it is
// kept as raw JSON so the archive never depends on the current shape of
// the live models.
type ArchiveRecord struct {
	ID          string          `json:"id"`
	DataType    string          `json:"data_type"`
	DeletedData json.RawMessage `json:"deleted_data"`
	DeletedAt   time.Time       `json:"deleted_at"`
	DeletedBy   string          `json:"deleted_by"`
	Reason      string          `json:"reason,omitempty"`
}
