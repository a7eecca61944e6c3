package handler

import (
	"embed"
	"html/template"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-dashboard/internal/usecase/dashboard"
	"user-dashboard/pkg/logger"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// dashboardTemplate is the name of the page template
const dashboardTemplate = "dashboard.tmpl"

// Templates parses the HTML templates rendered by DashboardHandler
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

// DashboardHandler handles HTTP requests for the user dashboard
type DashboardHandler struct {
	dashboard dashboard.Dashboard
	log       *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(d dashboard.Dashboard, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard: d,
		log:       log,
	}
}

// UserResponse represents one row of the user table
type UserResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	City    string `json:"city"`
}

// DashboardResponse represents the HTTP response for the dashboard state
type DashboardResponse struct {
	Revision      uint64         `json:"revision"`
	State         string         `json:"state"`
	Error         string         `json:"error,omitempty"`
	Letters       []string       `json:"letters"`
	FilterLetter  string         `json:"filter_letter"`
	SortAscending bool           `json:"sort_ascending"`
	Total         int            `json:"total"`
	Users         []UserResponse `json:"users"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// letterButton is one filter control on the page
type letterButton struct {
	Label  string
	Action string
	Active bool
}

// pageView is the data rendered by the dashboard template
type pageView struct {
	Loading   bool
	Failed    bool
	Error     string
	Letters   []letterButton
	SortLabel string
	SortIcon  string
	Rows      []UserResponse
}

// Page handles GET /
func (h *DashboardHandler) Page(c *gin.Context) {
	snap := h.dashboard.Snapshot()
	c.HTML(http.StatusOK, dashboardTemplate, newPageView(snap))
}

// Snapshot handles GET /v1/dashboard
func (h *DashboardHandler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, toDashboardResponse(h.dashboard.Snapshot()))
}

// SelectLetter handles POST /filter/:letter
func (h *DashboardHandler) SelectLetter(c *gin.Context) {
	raw := c.Param("letter")
	letter, err := dashboard.ParseLetter(raw)
	if err == nil {
		err = h.dashboard.SelectLetter(letter)
	}
	if err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("Invalid filter letter", zap.String("letter", raw), zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_letter",
			Message: err.Error(),
		})
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Debug("filter letter selected", zap.String("letter", raw))
	c.Redirect(http.StatusSeeOther, "/")
}

// ToggleSort handles POST /sort
func (h *DashboardHandler) ToggleSort(c *gin.Context) {
	h.dashboard.ToggleSort()

	logger.WithContext(c.Request.Context(), h.log).Debug("sort direction toggled")
	c.Redirect(http.StatusSeeOther, "/")
}

// Events handles GET /v1/dashboard/events, streaming one server-sent
// event per state change, starting with the current state.
func (h *DashboardHandler) Events(c *gin.Context) {
	updates, cancel := dashboard.SubscribeLatest(h.dashboard)
	defer cancel()

	log := logger.WithContext(c.Request.Context(), h.log)
	log.Debug("events client connected")

	c.Header("Cache-Control", "no-cache")
	c.SSEvent("snapshot", toDashboardResponse(h.dashboard.Snapshot()))
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			log.Debug("events client disconnected")
			return false
		case snap := <-updates:
			c.SSEvent("snapshot", toDashboardResponse(snap))
			return true
		}
	})
}

func newPageView(snap dashboard.Snapshot) pageView {
	view := pageView{
		Loading: snap.Branch == dashboard.BranchLoading,
		Failed:  snap.Branch == dashboard.BranchError,
		Error:   snap.Error,
	}
	if snap.Branch != dashboard.BranchReady {
		return view
	}

	view.Letters = make([]letterButton, len(dashboard.Letters))
	for i, l := range dashboard.Letters {
		view.Letters[i] = letterButton{
			Label:  string(l),
			Action: "/filter/" + string(l),
			Active: l == snap.FilterLetter,
		}
	}

	if snap.SortAscending {
		view.SortLabel = "Sort by name, ascending"
		view.SortIcon = "▲"
	} else {
		view.SortLabel = "Sort by name, descending"
		view.SortIcon = "▼"
	}

	view.Rows = toUserResponses(snap)
	return view
}

func toDashboardResponse(snap dashboard.Snapshot) DashboardResponse {
	letters := make([]string, len(dashboard.Letters))
	for i, l := range dashboard.Letters {
		letters[i] = string(l)
	}

	return DashboardResponse{
		Revision:      snap.Revision,
		State:         snap.Branch.String(),
		Error:         snap.Error,
		Letters:       letters,
		FilterLetter:  string(snap.FilterLetter),
		SortAscending: snap.SortAscending,
		Total:         snap.Total,
		Users:         toUserResponses(snap),
	}
}

func toUserResponses(snap dashboard.Snapshot) []UserResponse {
	users := make([]UserResponse, len(snap.Rows))
	for i, u := range snap.Rows {
		users[i] = UserResponse{
			ID:      u.ID,
			Name:    u.Name,
			Email:   u.Email,
			Company: u.Company.Name,
			City:    u.Address.City,
		}
	}
	return users
}
