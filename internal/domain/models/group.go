// internal/domain/models/group.go
package models

import (
	"strings"
	"time"
)

// Member is one student in a group. RollNumber is unique across all
// active groups, not just within one group.
type Member struct {
	Name       string `json:"name"`
	RollNumber string `json:"roll_no"`
	IsLeader   bool   `json:"is_leader"`
}

// Blank reports whether the member slot is effectively empty (submission
// forms send fixed-size member lists with unused trailing slots).
func (m Member) Blank() bool {
	return strings.TrimSpace(m.Name) == "" && strings.TrimSpace(m.RollNumber) == ""
}

// Group is a student group created by a form submission.
//
// Invariants:
//   - GroupNumber is unique and monotonically assigned.
//   - Members[0] is the one and only leader.
//   - No two active groups share a roll number or a non-empty ProjectName.
type Group struct {
	GroupNumber         int        `json:"group_number"`
	ProjectName         string     `json:"project_name,omitempty"`
	Status              string     `json:"status"`
	Members             []Member   `json:"members"`
	SubmissionTimestamp time.Time  `json:"submission_timestamp"`
	Deleted             bool       `json:"deleted"`
	DeletedAt           *time.Time `json:"deleted_at,omitempty"`
	DeletedReason       string     `json:"deleted_reason,omitempty"`
}

// Leader returns the leading member. The zero Member is returned for a
// malformed group with no leader flag set.
func (g *Group) Leader() Member {
	for _, m := range g.Members {
		if m.IsLeader {
			return m
		}
	}
	return Member{}
}

// RollNumbers returns the trimmed, non-blank roll numbers of the group.
func (g *Group) RollNumbers() []string {
	rolls := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		if r := strings.TrimSpace(m.RollNumber); r != "" {
			rolls = append(rolls, r)
		}
	}
	return rolls
}
