package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/handler/terminal"
)

// Build information - set via ldflags at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var startTime = time.Now()

// SystemHandler reports the state of the server
type SystemHandler struct {
	*BaseHandler
	fs       *filesystem.Filesystem
	bin      *filesystem.RecycleBin
	sessions *terminal.SessionManager
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(fs *filesystem.Filesystem, bin *filesystem.RecycleBin, sessions *terminal.SessionManager) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(),
		fs:          fs,
		bin:         bin,
		sessions:    sessions,
	}
}

// HealthResponse is the response body for the health endpoint
type HealthResponse struct {
	Status         string           `json:"status" binding:"required" example:"ok"`
	Version        string           `json:"version" binding:"required" example:"v0.1.0"`
	GitCommit      string           `json:"gitCommit" binding:"required" example:"abc123"`
	BuildTime      string           `json:"buildTime" binding:"required" example:"2026-01-29T17:36:52Z"`
	GoVersion      string           `json:"goVersion" binding:"required" example:"go1.25.0"`
	OS             string           `json:"os" binding:"required" example:"linux"`
	Arch           string           `json:"arch" binding:"required" example:"amd64"`
	Uptime         string           `json:"uptime" binding:"required" example:"1h30m"`
	UptimeSeconds  float64          `json:"uptimeSeconds" binding:"required" example:"5400.5"`
	StartedAt      string           `json:"startedAt" binding:"required" example:"2026-01-29T18:45:49Z"`
	Sessions       int              `json:"sessions" binding:"required" example:"2"`
	RecycleBinSize int              `json:"recycleBinSize" binding:"required" example:"0"`
	Drive          filesystem.Stats `json:"drive" binding:"required"`
} // @name HealthResponse

// HandleHealth handles GET requests to /health
// @Summary Health check
// @Description Returns health status, binary details and the size of the virtual drive
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse "Health status"
// @Router /health [get]
func (h *SystemHandler) HandleHealth(c *gin.Context) {
	uptime := time.Since(startTime)

	h.SendJSON(c, http.StatusOK, HealthResponse{
		Status:         "ok",
		Version:        Version,
		GitCommit:      GitCommit,
		BuildTime:      BuildTime,
		GoVersion:      runtime.Version(),
		OS:             runtime.GOOS,
		Arch:           runtime.GOARCH,
		Uptime:         uptime.Round(time.Second).String(),
		UptimeSeconds:  uptime.Seconds(),
		StartedAt:      startTime.Format(time.RFC3339),
		Sessions:       len(h.sessions.List()),
		RecycleBinSize: h.bin.Len(),
		Drive:          h.fs.Stats(),
	})
}
