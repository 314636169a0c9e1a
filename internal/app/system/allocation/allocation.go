// Package allocation owns every operation that must keep the groups,
// projects, and config collections mutually consistent: form
// submissions, group deletion with claim release, project deletion,
// and status adjudication. All of them run inside one multi-collection
// critical section so no request can observe a half-applied change.
package allocation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	archivestore "github.com/sranand/allochub/internal/app/store/archive"
	groupstore "github.com/sranand/allochub/internal/app/store/groups"
	"github.com/sranand/allochub/internal/app/store/jsonstore"
	projectstore "github.com/sranand/allochub/internal/app/store/projects"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	"github.com/sranand/allochub/internal/app/system/deadline"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/app/system/validate"
	"github.com/sranand/allochub/internal/domain/models"
)

// Controller coordinates the cross-collection writes.
type Controller struct {
	files   *jsonstore.Store
	archive *archivestore.Store
	gate    *deadline.Gate
	log     *zap.Logger
}

func NewController(files *jsonstore.Store, archive *archivestore.Store, gate *deadline.Gate, log *zap.Logger) *Controller {
	return &Controller{files: files, archive: archive, gate: gate, log: log}
}

// normalizeMembers trims every field, drops blank slots, and forces the
// first remaining member to be the sole leader.
func normalizeMembers(members []models.Member) []models.Member {
	out := make([]models.Member, 0, len(members))
	for _, m := range members {
		m.Name = strings.TrimSpace(m.Name)
		m.RollNumber = strings.TrimSpace(m.RollNumber)
		if m.Blank() {
			continue
		}
		m.IsLeader = false
		out = append(out, m)
	}
	if len(out) > 0 {
		out[0].IsLeader = true
	}
	return out
}

// Submit validates a form submission and, if it passes, creates the
// group, claims the project, and advances the group counter in one
// commit. Validation runs inside the critical section against the data
// it will modify, so two racing submissions for the same project or
// roll number cannot both pass.
func (c *Controller) Submit(ctx context.Context, projectName string, members []models.Member) (models.Group, error) {
	now := time.Now().UTC()
	if err := c.gate.Require(models.ChannelProjectAllocation, now); err != nil {
		return models.Group{}, err
	}

	projectName = strings.TrimSpace(projectName)
	members = normalizeMembers(members)

	var created models.Group
	collections := []string{jsonstore.Config, jsonstore.Groups, jsonstore.Projects}
	err := c.files.Batch(ctx, collections, func(tx *jsonstore.Tx) error {
		cfg, err := settingsstore.Read(tx)
		if err != nil {
			return err
		}
		groups, err := groupstore.Read(tx)
		if err != nil {
			return err
		}
		projects, err := projectstore.Read(tx)
		if err != nil {
			return err
		}

		activeGroups := groupstore.FilterActive(groups)
		activeProjects := projectstore.FilterActive(projects)
		if reasons := validate.Submission(cfg, members, projectName, activeGroups, activeProjects); len(reasons) > 0 {
			return faults.Validation(reasons)
		}

		// New groups start unadjudicated; SetStatus moves them later.
		// The claimed project flips to Submitted so the board shows it
		// as taken.
		created = models.Group{
			GroupNumber:         cfg.NextGroupNumber,
			ProjectName:         projectName,
			Status:              models.StatusNotSelected,
			Members:             members,
			SubmissionTimestamp: now,
		}
		cfg.NextGroupNumber++
		groups = append(groups, created)

		for i := range projects {
			if projects[i].Name == projectName && !projects[i].Deleted {
				projects[i].SelectedByGroup = created.GroupNumber
				projects[i].Status = models.StatusSubmitted
				break
			}
		}

		if err := settingsstore.Write(tx, cfg); err != nil {
			return err
		}
		if err := groupstore.Write(tx, groups); err != nil {
			return err
		}
		return projectstore.Write(tx, projects)
	})
	if err != nil {
		return models.Group{}, err
	}

	c.log.Info("group registered",
		zap.Int("group_number", created.GroupNumber),
		zap.String("project", projectName),
		zap.Int("members", len(members)))
	return created, nil
}

// DeleteGroup archives an active group, marks it deleted, and releases
// its project claim. The claim is released only when no other active
// group still holds the project, which is re-derived by scanning rather
// than trusting the stored claim pointer.
func (c *Controller) DeleteGroup(ctx context.Context, groupNumber int, deletedBy, reason string) error {
	collections := []string{jsonstore.Groups, jsonstore.Projects}
	err := c.files.Batch(ctx, collections, func(tx *jsonstore.Tx) error {
		groups, err := groupstore.Read(tx)
		if err != nil {
			return err
		}
		projects, err := projectstore.Read(tx)
		if err != nil {
			return err
		}

		idx := -1
		for i := range groups {
			if groups[i].GroupNumber == groupNumber && !groups[i].Deleted {
				idx = i
				break
			}
		}
		if idx < 0 {
			return faults.New(faults.NotFound, fmt.Sprintf("group %d not found", groupNumber))
		}

		// Archive before the mark so a failure here leaves the live
		// data untouched.
		if _, err := c.archive.Write("group", groups[idx], deletedBy, reason); err != nil {
			return err
		}

		now := time.Now().UTC()
		groups[idx].Deleted = true
		groups[idx].DeletedAt = &now
		groups[idx].DeletedReason = reason
		projectName := groups[idx].ProjectName

		releaseUnclaimed(projects, groupstore.FilterActive(groups), projectName)

		if err := groupstore.Write(tx, groups); err != nil {
			return err
		}
		return projectstore.Write(tx, projects)
	})
	if err != nil {
		return err
	}
	c.log.Info("group deleted", zap.Int("group_number", groupNumber), zap.String("by", deletedBy))
	return nil
}

// releaseUnclaimed resets a project to unclaimed when no active group
// holds it anymore.
func releaseUnclaimed(projects []models.Project, activeGroups []models.Group, projectName string) {
	if projectName == "" {
		return
	}
	for _, g := range activeGroups {
		if g.ProjectName == projectName {
			return
		}
	}
	for i := range projects {
		if projects[i].Name == projectName && !projects[i].Deleted {
			projects[i].SelectedByGroup = 0
			projects[i].Status = models.StatusNotSelected
			return
		}
	}
}

// DeleteProject archives and soft-deletes a project. A claimed project
// is refused unless cascade is set, in which case the claiming group is
// archived and deleted with it.
func (c *Controller) DeleteProject(ctx context.Context, name string, deletedBy, reason string, cascade bool) error {
	name = strings.TrimSpace(name)
	collections := []string{jsonstore.Groups, jsonstore.Projects}
	err := c.files.Batch(ctx, collections, func(tx *jsonstore.Tx) error {
		groups, err := groupstore.Read(tx)
		if err != nil {
			return err
		}
		projects, err := projectstore.Read(tx)
		if err != nil {
			return err
		}

		idx := -1
		for i := range projects {
			if projects[i].Name == name && !projects[i].Deleted {
				idx = i
				break
			}
		}
		if idx < 0 {
			return faults.New(faults.NotFound, "project "+name+" not found")
		}

		// Claims are derived from the groups themselves.
		var claimants []int
		for i := range groups {
			if !groups[i].Deleted && groups[i].ProjectName == name {
				claimants = append(claimants, i)
			}
		}
		if len(claimants) > 0 && !cascade {
			return faults.New(faults.ValidationFailed,
				fmt.Sprintf("project %q is claimed by group %d; delete the group first or request a cascade", name, groups[claimants[0]].GroupNumber))
		}

		now := time.Now().UTC()
		for _, i := range claimants {
			if _, err := c.archive.Write("group", groups[i], deletedBy, "cascade from project "+name); err != nil {
				return err
			}
			groups[i].Deleted = true
			groups[i].DeletedAt = &now
			groups[i].DeletedReason = "cascade from project " + name
		}

		if _, err := c.archive.Write("project", projects[idx], deletedBy, reason); err != nil {
			return err
		}
		projects[idx].Deleted = true
		projects[idx].DeletedAt = &now
		projects[idx].DeletedReason = reason

		if err := groupstore.Write(tx, groups); err != nil {
			return err
		}
		return projectstore.Write(tx, projects)
	})
	if err != nil {
		return err
	}
	c.log.Info("project deleted", zap.String("project", name), zap.Bool("cascade", cascade))
	return nil
}

// SetStatus adjudicates a group: its status and its claimed project's
// status move together.
func (c *Controller) SetStatus(ctx context.Context, groupNumber int, status string) error {
	if !models.ValidStatus(status) {
		return faults.New(faults.ValidationFailed, status+" is not a valid status")
	}
	collections := []string{jsonstore.Groups, jsonstore.Projects}
	return c.files.Batch(ctx, collections, func(tx *jsonstore.Tx) error {
		groups, err := groupstore.Read(tx)
		if err != nil {
			return err
		}
		projects, err := projectstore.Read(tx)
		if err != nil {
			return err
		}

		idx := -1
		for i := range groups {
			if groups[i].GroupNumber == groupNumber && !groups[i].Deleted {
				idx = i
				break
			}
		}
		if idx < 0 {
			return faults.New(faults.NotFound, fmt.Sprintf("group %d not found", groupNumber))
		}
		groups[idx].Status = status

		for i := range projects {
			if projects[i].Name == groups[idx].ProjectName && !projects[i].Deleted {
				projects[i].Status = status
				break
			}
		}

		if err := groupstore.Write(tx, groups); err != nil {
			return err
		}
		return projectstore.Write(tx, projects)
	})
}
