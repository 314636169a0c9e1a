// Package deadline decides whether a submission channel currently
// accepts submissions. A channel is open only when the form is
// published, the channel is the configured form mode, and its deadline
// (if any) has not passed.
package deadline

import (
	"fmt"
	"time"

	deadlinestore "github.com/sranand/allochub/internal/app/store/deadlines"
	settingsstore "github.com/sranand/allochub/internal/app/store/settings"
	"github.com/sranand/allochub/internal/app/system/faults"
	"github.com/sranand/allochub/internal/domain/models"
)

// Status is the gate's answer for one channel at one instant.
type Status struct {
	Channel   string        `json:"channel"`
	Open      bool          `json:"open"`
	Detail    string        `json:"detail"`
	Cutoff    *time.Time    `json:"cutoff,omitempty"`
	Remaining time.Duration `json:"-"`
}

// Gate evaluates channel availability from the live settings and
// deadline entries.
type Gate struct {
	settings  *settingsstore.Store
	deadlines *deadlinestore.Store
}

func NewGate(settings *settingsstore.Store, deadlines *deadlinestore.Store) *Gate {
	return &Gate{settings: settings, deadlines: deadlines}
}

// Status evaluates one channel at now. Every decision point uses this
// single instant, so a submission cannot straddle a cutoff mid-check.
func (g *Gate) Status(channel string, now time.Time) (Status, error) {
	if !models.ValidChannel(channel) {
		return Status{}, faults.New(faults.ValidationFailed, channel+" is not a submission channel")
	}
	cfg, err := g.settings.Get()
	if err != nil {
		return Status{}, err
	}
	d, configured, err := g.deadlines.Get(channel)
	if err != nil {
		return Status{}, err
	}
	return evaluate(channel, cfg, d, configured, now), nil
}

// Require returns nil when the channel is open and a DeadlineClosed
// fault carrying the closed detail otherwise.
func (g *Gate) Require(channel string, now time.Time) error {
	status, err := g.Status(channel, now)
	if err != nil {
		return err
	}
	if !status.Open {
		return faults.New(faults.DeadlineClosed, status.Detail)
	}
	return nil
}

func evaluate(channel string, cfg models.Config, d models.Deadline, configured bool, now time.Time) Status {
	status := Status{Channel: channel}

	if !cfg.FormPublished {
		status.Detail = "form unpublished"
		return status
	}
	if cfg.FormMode != channel {
		status.Detail = fmt.Sprintf("the form is currently collecting %s submissions", cfg.FormMode)
		return status
	}
	if configured && d.Enabled {
		status.Cutoff = &d.Cutoff
		if !now.Before(d.Cutoff) {
			if d.Message != "" {
				status.Detail = d.Message
			} else {
				status.Detail = fmt.Sprintf("the deadline passed on %s", d.Cutoff.Format("02 Jan 2006 15:04 MST"))
			}
			return status
		}
		status.Open = true
		status.Remaining = d.Cutoff.Sub(now)
		status.Detail = fmt.Sprintf("open, %s remaining", status.Remaining.Round(time.Minute))
		return status
	}

	status.Open = true
	status.Detail = "open"
	return status
}
