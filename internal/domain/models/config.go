// internal/domain/models/config.go
package models

// Config holds the process-wide settings administrators can change.
// It is created with defaults on first run and never deleted.
type Config struct {
	MaxMembers           int    `json:"max_members"`
	NextGroupNumber      int    `json:"next_group_number"`
	FormPublished        bool   `json:"form_published"`
	FormMode             string `json:"form_mode"`
	EnableFileSubmission bool   `json:"enable_file_submission"`
	BaseURL              string `json:"base_url"`
}

// DefaultConfig returns the settings written on first run.
func DefaultConfig() Config {
	return Config{
		MaxMembers:      4,
		NextGroupNumber: 1,
		FormPublished:   true,
		FormMode:        ChannelProjectAllocation,
		BaseURL:         "http://localhost:8080",
	}
}
