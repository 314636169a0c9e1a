// internal/domain/models/formcontent.go
package models

import "time"

// CoverPage is the optional landing section shown before the form.
// Content is admin-authored markup and is sanitized on save.
type CoverPage struct {
	Enabled     bool       `json:"enabled"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// FormHeader is the title block of the student form.
type FormHeader struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ShowDeadline bool       `json:"show_deadline"`
	Deadline     string     `json:"deadline,omitempty"` // display date, YYYY-MM-DD
	ShowContact  bool       `json:"show_contact"`
	ContactEmail string     `json:"contact_email,omitempty"`
	LastUpdated  *time.Time `json:"last_updated,omitempty"`
}

// FormContent is everything admins can edit about the student-facing form.
type FormContent struct {
	CoverPage  CoverPage  `json:"cover_page"`
	FormHeader FormHeader `json:"form_header"`
}

// DefaultFormContent returns the content written on first run.
func DefaultFormContent() FormContent {
	return FormContent{
		CoverPage: CoverPage{
			Enabled: true,
			Title:   "Final Year Project Allocation",
			Content: "Form groups, pick a project, and submit before the deadline.",
		},
		FormHeader: FormHeader{
			Title:        "Final Year Project Selection Form",
			Description:  "Fill in all required fields to submit your project group allocation.",
			ShowDeadline: true,
			ShowContact:  true,
			ContactEmail: "projects@university.edu",
		},
	}
}
