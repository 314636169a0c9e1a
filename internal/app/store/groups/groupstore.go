// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sranand/allochub/internal/app/store/jsonstore"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/domain/models"
)

var (
	ErrDuplicateRoll   = errors.New("this roll number is already registered in an active group")
	ErrLeaderProtected = errors.New("the group leader cannot be removed")
)

// Store reads and mutates the groups collection. Cross-collection
// sequences (allocation, release) live in the allocation engine; the
// store only offers single-collection operations.
type Store struct {
	files *jsonstore.Store
}

func New(files *jsonstore.Store) *Store {
	return &Store{files: files}
}

// Read loads the full groups list inside a batch critical section.
func Read(tx *jsonstore.Tx) ([]models.Group, error) {
	var groups []models.Group
	if _, err := tx.Load(jsonstore.Groups, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Write stages the full groups list inside a batch.
func Write(tx *jsonstore.Tx, groups []models.Group) error {
	return tx.Save(jsonstore.Groups, groups)
}

// All returns every group, soft-deleted ones included.
func (s *Store) All() ([]models.Group, error) {
	var groups []models.Group
	if _, err := s.files.Load(jsonstore.Groups, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// Active returns the active view: groups with deleted == false.
func (s *Store) Active() ([]models.Group, error) {
	all, err := s.All()
	if err != nil {
		return nil, err
	}
	return FilterActive(all), nil
}

// FilterActive returns the non-deleted groups of a snapshot.
func FilterActive(groups []models.Group) []models.Group {
	active := make([]models.Group, 0, len(groups))
	for _, g := range groups {
		if !g.Deleted {
			active = append(active, g)
		}
	}
	return active
}

// ByNumber returns the active group with the given number.
func (s *Store) ByNumber(number int) (models.Group, error) {
	active, err := s.Active()
	if err != nil {
		return models.Group{}, err
	}
	for _, g := range active {
		if g.GroupNumber == number {
			return g, nil
		}
	}
	return models.Group{}, faults.New(faults.NotFound, fmt.Sprintf("group %d not found", number))
}

// Replace persists a full groups snapshot under the collection lock.
func (s *Store) Replace(ctx context.Context, groups []models.Group) error {
	return s.files.Update(ctx, jsonstore.Groups, func() error {
		return s.files.Save(jsonstore.Groups, groups)
	})
}

// UpdateStatus sets the status of an active group.
func (s *Store) UpdateStatus(ctx context.Context, number int, status string) error {
	return s.files.Update(ctx, jsonstore.Groups, func() error {
		all, err := s.All()
		if err != nil {
			return err
		}
		for i := range all {
			if all[i].GroupNumber == number && !all[i].Deleted {
				all[i].Status = status
				return s.files.Save(jsonstore.Groups, all)
			}
		}
		return faults.New(faults.NotFound, fmt.Sprintf("group %d not found", number))
	})
}

// AddMember appends a member to an active group. The new roll number
// must be unused across all active groups, not just this one.
func (s *Store) AddMember(ctx context.Context, number int, member models.Member) error {
	member.Name = strings.TrimSpace(member.Name)
	member.RollNumber = strings.TrimSpace(member.RollNumber)
	member.IsLeader = false

	return s.files.Update(ctx, jsonstore.Groups, func() error {
		all, err := s.All()
		if err != nil {
			return err
		}
		for _, g := range FilterActive(all) {
			for _, roll := range g.RollNumbers() {
				if roll == member.RollNumber {
					return ErrDuplicateRoll
				}
			}
		}
		for i := range all {
			if all[i].GroupNumber == number && !all[i].Deleted {
				all[i].Members = append(all[i].Members, member)
				return s.files.Save(jsonstore.Groups, all)
			}
		}
		return faults.New(faults.NotFound, fmt.Sprintf("group %d not found", number))
	})
}

// RemoveMember removes the member with the given roll number from an
// active group. The leader is protected.
func (s *Store) RemoveMember(ctx context.Context, number int, rollNumber string) error {
	rollNumber = strings.TrimSpace(rollNumber)
	return s.files.Update(ctx, jsonstore.Groups, func() error {
		all, err := s.All()
		if err != nil {
			return err
		}
		for i := range all {
			if all[i].GroupNumber != number || all[i].Deleted {
				continue
			}
			for j, m := range all[i].Members {
				if strings.TrimSpace(m.RollNumber) != rollNumber {
					continue
				}
				if m.IsLeader {
					return ErrLeaderProtected
				}
				all[i].Members = append(all[i].Members[:j], all[i].Members[j+1:]...)
				return s.files.Save(jsonstore.Groups, all)
			}
			return faults.New(faults.NotFound, "member "+rollNumber+" not found in group")
		}
		return faults.New(faults.NotFound, fmt.Sprintf("group %d not found", number))
	})
}
