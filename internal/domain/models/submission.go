// internal/domain/models/submission.go
package models

import "time"

// FileSubmissionSettings controls the project-files channel. Upload bytes
// are handled outside the core; only name/size metadata is recorded here.
type FileSubmissionSettings struct {
	Enabled        bool     `json:"enabled"`
	AllowedFormats []string `json:"allowed_formats"`
	MaxSizeMB      int      `json:"max_size_mb"`
	Instructions   string   `json:"instructions,omitempty"`
}

// DefaultFileSubmissionSettings returns the settings written on first run.
func DefaultFileSubmissionSettings() FileSubmissionSettings {
	return FileSubmissionSettings{
		AllowedFormats: []string{".pdf", ".doc", ".docx", ".ppt", ".pptx", ".xls", ".xlsx", ".csv", ".zip", ".rar"},
		MaxSizeMB:      10,
		Instructions:   "Please upload your project files in the specified formats.",
	}
}

// FileSubmission is one uploaded file recorded against a group.
type FileSubmission struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
	ProjectName string    `json:"project_name,omitempty"`
	GroupLeader string    `json:"group_leader,omitempty"`
}

// CourseworkSubmission is one lab-manual or class-assignment hand-in.
// Coursework is per student (roll number), unlike project files which
// attach to the whole group.
type CourseworkSubmission struct {
	ID          string    `json:"id"`
	RollNumber  string    `json:"roll_no"`
	GroupNumber int       `json:"group_number,omitempty"`
	Filename    string    `json:"filename"`
	Size        int64     `json:"size"`
	SubmittedAt time.Time `json:"submitted_at"`
}
