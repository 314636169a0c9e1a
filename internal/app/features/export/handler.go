// internal/app/features/export/handler.go
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	uierrors "github.com/sranand/allochub/internal/app/features/errors"
	groupstore "github.com/sranand/allochub/internal/app/store/groups"
	projectstore "github.com/sranand/allochub/internal/app/store/projects"
	"github.com/sranand/allochub/internal/app/system/auth"
)

// Handler streams the allocation board as CSV or JSON downloads.
type Handler struct {
	Groups   *groupstore.Store
	Projects *projectstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(groups *groupstore.Store, projects *projectstore.Store, errLog *uierrors.ErrorLogger, log *zap.Logger) *Handler {
	return &Handler{Groups: groups, Projects: projects, ErrLog: errLog, Log: log}
}

type allocationRow struct {
	GroupNumber int       `json:"group_number"`
	ProjectName string    `json:"project_name"`
	Status      string    `json:"status"`
	Leader      string    `json:"leader"`
	LeaderRoll  string    `json:"leader_roll"`
	Members     string    `json:"members"`
	Rolls       string    `json:"rolls"`
	SubmittedAt time.Time `json:"submitted_at"`
}

func (h *Handler) buildRows() ([]allocationRow, error) {
	groups, err := h.Groups.Active()
	if err != nil {
		return nil, err
	}

	rows := make([]allocationRow, 0, len(groups))
	for _, g := range groups {
		var leader, leaderRoll string
		var names, rolls []string
		for _, m := range g.Members {
			if m.IsLeader {
				leader = m.Name
				leaderRoll = m.RollNumber
			}
			names = append(names, m.Name)
			rolls = append(rolls, m.RollNumber)
		}
		rows = append(rows, allocationRow{
			GroupNumber: g.GroupNumber,
			ProjectName: g.ProjectName,
			Status:      g.Status,
			Leader:      leader,
			LeaderRoll:  leaderRoll,
			Members:     strings.Join(names, "|"),
			Rolls:       strings.Join(rolls, "|"),
			SubmittedAt: g.SubmissionTimestamp,
		})
	}
	return rows, nil
}

// ServeAllocationsCSV handles GET /admin/export/allocations.csv.
func (h *Handler) ServeAllocationsCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.buildRows()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	filename := "allocations_" + time.Now().UTC().Format("20060102_150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	// UTF-8 BOM so Excel treats it as Unicode
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		h.Log.Error("CSV write failed (BOM)", zap.Error(err))
		return
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	defer cw.Flush()

	if err := cw.Write([]string{"group_number", "project_name", "status", "leader", "leader_roll", "members", "rolls", "submitted_at"}); err != nil {
		h.Log.Error("CSV write failed (header)", zap.Error(err))
		return
	}

	for _, row := range rows {
		if err := cw.Write([]string{
			fmt.Sprintf("%d", row.GroupNumber),
			sanitizeCSVField(row.ProjectName),
			row.Status,
			sanitizeCSVField(row.Leader),
			row.LeaderRoll,
			sanitizeCSVField(row.Members),
			row.Rolls,
			row.SubmittedAt.Format(time.RFC3339),
		}); err != nil {
			h.Log.Error("CSV write failed (row)", zap.Error(err))
			return
		}
	}

	admin, _ := auth.CurrentAdmin(r)
	h.Log.Info("allocations CSV exported", zap.String("by", admin.Username), zap.Int("rows", len(rows)))
}

// ServeAllocationsJSON handles GET /admin/export/allocations.json.
func (h *Handler) ServeAllocationsJSON(w http.ResponseWriter, r *http.Request) {
	rows, err := h.buildRows()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	filename := "allocations_" + time.Now().UTC().Format("20060102_150405") + ".json"
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		h.Log.Error("JSON encode failed", zap.Error(err))
	}
}

// ServeProjectsCSV handles GET /admin/export/projects.csv.
func (h *Handler) ServeProjectsCSV(w http.ResponseWriter, r *http.Request) {
	projects, err := h.Projects.Active()
	if err != nil {
		h.ErrLog.Render(w, r, err)
		return
	}

	filename := "projects_" + time.Now().UTC().Format("20060102_150405") + ".csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))

	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		h.Log.Error("CSV write failed (BOM)", zap.Error(err))
		return
	}

	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	defer cw.Flush()

	if err := cw.Write([]string{"project_name", "status", "selected_by_group"}); err != nil {
		h.Log.Error("CSV write failed (header)", zap.Error(err))
		return
	}

	for _, p := range projects {
		claimed := ""
		if p.Claimed() {
			claimed = fmt.Sprintf("%d", p.SelectedByGroup)
		}
		if err := cw.Write([]string{sanitizeCSVField(p.Name), p.Status, claimed}); err != nil {
			h.Log.Error("CSV write failed (row)", zap.Error(err))
			return
		}
	}

	admin, _ := auth.CurrentAdmin(r)
	h.Log.Info("projects CSV exported", zap.String("by", admin.Username), zap.Int("rows", len(projects)))
}

// sanitizeCSVField prevents CSV formula injection.
func sanitizeCSVField(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s
	}
	return s
}
