// internal/domain/models/project.go
package models

import "time"

// Project statuses. A project's status must stay consistent with whether
// any active group currently claims it by name: NotSelected means
// unclaimed; every other status implies a claim exists (or existed and is
// under administrative review).
const (
	StatusNotSelected = "Not Selected"
	StatusSubmitted   = "Submitted"
	StatusUnderReview = "Under Review"
	StatusApproved    = "Approved"
	StatusRejected    = "Rejected"
)

// ProjectStatuses lists every valid project/group status, in review order.
var ProjectStatuses = []string{
	StatusNotSelected,
	StatusSubmitted,
	StatusUnderReview,
	StatusApproved,
	StatusRejected,
}

// ValidStatus reports whether s is one of the known statuses.
func ValidStatus(s string) bool {
	for _, v := range ProjectStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Project is an offered topic students can claim. Name is the unique key.
// Soft-deleted projects stay in the collection for audit; active-set
// queries must go through the store's Active view.
type Project struct {
	Name            string     `json:"name"`
	Status          string     `json:"status"`
	SelectedByGroup int        `json:"selected_by_group,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	Deleted         bool       `json:"deleted"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
	DeletedReason   string     `json:"deleted_reason,omitempty"`
	ReactivatedAt   *time.Time `json:"reactivated_at,omitempty"`
}

// Claimed reports whether the project currently records a claiming group.
func (p *Project) Claimed() bool {
	return p.SelectedByGroup > 0
}
