// internal/domain/models/shortlink.go
package models

import "time"

// ShortLink maps an opaque code to a target view. Clicks and
// LastAccessedAt are updated on every resolved hit.
type ShortLink struct {
	Code           string     `json:"code"`
	TargetURL      string     `json:"url"`
	Clicks         int        `json:"clicks"`
	CreatedAt      time.Time  `json:"created_at"`
	LastAccessedAt *time.Time `json:"last_accessed,omitempty"`
}
