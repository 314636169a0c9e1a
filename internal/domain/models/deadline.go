// internal/domain/models/deadline.go
package models

import "time"

// Submission channels. FormMode selects exactly one of these; each has
// its own deadline entry.
const (
	ChannelProjectAllocation = "project_allocation"
	ChannelProjectFiles      = "project_files"
	ChannelLabManual         = "lab_manual"
	ChannelClassAssignment   = "class_assignment"
)

// Channels lists the mutually exclusive submission modes.
var Channels = []string{
	ChannelProjectAllocation,
	ChannelProjectFiles,
	ChannelLabManual,
	ChannelClassAssignment,
}

// ValidChannel reports whether c names a known submission channel.
func ValidChannel(c string) bool {
	for _, v := range Channels {
		if v == c {
			return true
		}
	}
	return false
}

// Deadline is the configured cutoff for one submission channel.
// A missing or disabled entry means the channel is always open.
type Deadline struct {
	Enabled bool      `json:"enabled"`
	Cutoff  time.Time `json:"cutoff"`
	Message string    `json:"message,omitempty"`
}
