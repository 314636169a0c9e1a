// Package validate checks form submissions against the live data set.
// Checks are pure functions over snapshots the caller has already
// loaded, so the allocation engine can re-run them inside its critical
// section without re-reading anything.
//
// Every check collects all of its failures instead of stopping at the
// first one; students see the complete list in a single response.
package validate

import (
	"fmt"
	"strings"

	"github.com/sranand/allochub/internal/domain/models"
)

// MemberSet checks the shape of the submitted member list: a complete
// leader in the first slot, no blank gaps, the configured size limit,
// and no roll number repeated within the submission itself.
func MemberSet(cfg models.Config, members []models.Member) []string {
	var reasons []string

	filled := make([]models.Member, 0, len(members))
	for _, m := range members {
		if !m.Blank() {
			filled = append(filled, m)
		}
	}

	if len(filled) == 0 {
		return []string{"at least the group leader must be filled in"}
	}
	if members[0].Blank() {
		reasons = append(reasons, "the first member slot is the group leader and must be filled in")
	}
	if len(filled) > cfg.MaxMembers {
		reasons = append(reasons, fmt.Sprintf("a group may have at most %d members", cfg.MaxMembers))
	}

	for i, m := range filled {
		name := strings.TrimSpace(m.Name)
		roll := strings.TrimSpace(m.RollNumber)
		if name == "" {
			reasons = append(reasons, fmt.Sprintf("member %d is missing a name", i+1))
		}
		if roll == "" {
			reasons = append(reasons, fmt.Sprintf("member %d is missing a roll number", i+1))
		}
	}

	seen := make(map[string]bool)
	for _, m := range filled {
		roll := strings.TrimSpace(m.RollNumber)
		if roll == "" {
			continue
		}
		if seen[roll] {
			reasons = append(reasons, "roll number "+roll+" appears more than once in this submission")
		}
		seen[roll] = true
	}
	return reasons
}

// RollConflicts reports every submitted roll number that already belongs
// to an active group.
func RollConflicts(members []models.Member, activeGroups []models.Group) []string {
	taken := make(map[string]int)
	for _, g := range activeGroups {
		for _, roll := range g.RollNumbers() {
			taken[roll] = g.GroupNumber
		}
	}

	var reasons []string
	for _, m := range members {
		roll := strings.TrimSpace(m.RollNumber)
		if roll == "" {
			continue
		}
		if groupNumber, ok := taken[roll]; ok {
			reasons = append(reasons,
				fmt.Sprintf("roll number %s is already registered in group %d", roll, groupNumber))
		}
	}
	return reasons
}

// ProjectAvailable checks that the chosen project exists in the active
// set and is not already claimed by another group.
func ProjectAvailable(projectName string, activeProjects []models.Project) []string {
	name := strings.TrimSpace(projectName)
	if name == "" {
		return []string{"a project must be selected"}
	}
	for _, p := range activeProjects {
		if p.Name != name {
			continue
		}
		if p.Claimed() || p.Status != models.StatusNotSelected {
			return []string{fmt.Sprintf("project %q has already been taken by group %d", name, p.SelectedByGroup)}
		}
		return nil
	}
	return []string{fmt.Sprintf("project %q does not exist", name)}
}

// Submission runs every check against the given snapshots and returns
// the combined failure list, empty when the submission is acceptable.
func Submission(cfg models.Config, members []models.Member, projectName string, activeGroups []models.Group, activeProjects []models.Project) []string {
	var reasons []string
	reasons = append(reasons, MemberSet(cfg, members)...)
	reasons = append(reasons, RollConflicts(members, activeGroups)...)
	reasons = append(reasons, ProjectAvailable(projectName, activeProjects)...)
	return reasons
}
