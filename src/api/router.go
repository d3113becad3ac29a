package api

import (
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/manojxshrestha/win11web-sub000/docs" // Import generated docs
	"github.com/manojxshrestha/win11web-sub000/src/handler"
	"github.com/manojxshrestha/win11web-sub000/src/handler/filesystem"
	"github.com/manojxshrestha/win11web-sub000/src/handler/terminal"
	"github.com/manojxshrestha/win11web-sub000/src/metrics"
)

// Dependencies are the services the routes are served from.
type Dependencies struct {
	FileSystem *filesystem.Filesystem
	RecycleBin *filesystem.RecycleBin
	Shares     *filesystem.ShareRegistry
	Sessions   *terminal.SessionManager
	Terminal   *handler.TerminalHandler

	// MCP is mounted at /mcp when set.
	MCP http.Handler

	DisableRequestLogging bool
	EnableProcessingTime  bool
}

// SetupRouter configures all the routes for the shell API
func SetupRouter(deps Dependencies) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(metricsMiddleware())
	if !deps.DisableRequestLogging {
		r.Use(logrusMiddleware())
	}
	if deps.EnableProcessingTime {
		r.Use(processingTimeMiddleware())
	}

	// Swagger documentation route
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	fsHandler := handler.NewFileSystemHandler(deps.FileSystem)
	binHandler := handler.NewRecycleBinHandler(deps.FileSystem, deps.RecycleBin)
	shareHandler := handler.NewShareHandler(deps.Shares)
	systemHandler := handler.NewSystemHandler(deps.FileSystem, deps.RecycleBin, deps.Sessions)

	// Filesystem routes
	fs := r.Group("/filesystem")
	fs.GET("/list", fsHandler.HandleListDirectory)
	fs.GET("/info", fsHandler.HandleGetInfo)
	fs.GET("/tree", fsHandler.HandleGetTree)
	fs.PUT("/tree", fsHandler.HandleCreateOrUpdateTree)
	fs.GET("/search", fsHandler.HandleSearch)
	fs.POST("/file", fsHandler.HandleCreateFile)
	fs.PUT("/file", fsHandler.HandleWriteFile)
	fs.POST("/directory", fsHandler.HandleCreateDirectory)
	fs.DELETE("", fsHandler.HandleDelete)
	fs.POST("/rename", fsHandler.HandleRename)
	fs.POST("/move", fsHandler.HandleMove)
	fs.POST("/copy", fsHandler.HandleCopy)
	fs.POST("/complete", fsHandler.HandleComplete)

	// Recycle bin routes
	bin := r.Group("/recycle-bin")
	bin.GET("", binHandler.HandleList)
	bin.DELETE("", binHandler.HandleEmpty)
	bin.POST("/recycle", binHandler.HandleRecycle)
	bin.GET("/:id", binHandler.HandleGet)
	bin.POST("/:id/restore", binHandler.HandleRestore)
	bin.DELETE("/:id", binHandler.HandleDelete)

	// Share routes
	r.GET("/shares", shareHandler.HandleList)
	r.POST("/shares", shareHandler.HandleCreate)
	r.DELETE("/shares/:name", shareHandler.HandleDelete)

	// Terminal routes
	if deps.Terminal != nil {
		r.GET("/terminal", deps.Terminal.HandleTerminalPage)
		r.GET("/terminal/sessions", deps.Terminal.HandleListSessions)
		r.POST("/terminal/execute", deps.Terminal.HandleExecute)
		r.GET("/terminal/ws", deps.Terminal.HandleTerminalWS)
	}

	// WebSocket endpoint for filesystem change events
	r.GET("/ws/watch/filesystem", fsHandler.HandleWatchDirectoryWebSocket)

	if deps.MCP != nil {
		r.Any("/mcp", gin.WrapH(deps.MCP))
	}

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Health check route
	r.GET("/health", systemHandler.HandleHealth)

	return r
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// metricsMiddleware records request counts and latency per route template.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

var sensitiveParams = map[string]struct{}{
	"api_key":       {},
	"apikey":        {},
	"api-key":       {},
	"key":           {},
	"token":         {},
	"access_token":  {},
	"jwt":           {},
	"password":      {},
	"secret":        {},
	"client_secret": {},
	"authorization": {},
	"credential":    {},
	"session_id":    {},
}

var sensitiveQueryPattern = regexp.MustCompile(`(?i)([?&](?:api_key|apikey|api-key|key|token|access_token|jwt|password|secret|client_secret|authorization|credential|session_id)=)[^&]*`)

const redacted = "[REDACTED]"

// redactSecrets replaces the values of credential-like query parameters.
// The query is re-encoded only when something was redacted.
func redactSecrets(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return redactQueryPatterns(rawURL)
	}
	if u.RawQuery == "" {
		return rawURL
	}
	values, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return redactQueryPatterns(rawURL)
	}

	changed := false
	for name := range values {
		if _, ok := sensitiveParams[strings.ToLower(name)]; ok {
			values[name] = []string{redacted}
			changed = true
		}
	}
	if !changed {
		return rawURL
	}
	u.RawQuery = values.Encode()
	return u.String()
}

// redactQueryPatterns is the textual fallback for URLs that do not parse.
func redactQueryPatterns(rawURL string) string {
	return sensitiveQueryPattern.ReplaceAllString(rawURL, "${1}"+redacted)
}

func logrusMiddleware() gin.HandlerFunc {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	skip := map[string]struct{}{
		"/health":  {},
		"/metrics": {},
	}

	return func(c *gin.Context) {
		// other handler can change c.Path so:
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		stop := time.Since(start)
		latency := int(math.Ceil(float64(stop.Nanoseconds()) / 1000000.0))
		statusCode := c.Writer.Status()
		dataLength := c.Writer.Size()
		if dataLength < 0 {
			dataLength = 0
		}

		if _, ok := skip[path]; ok {
			return
		}

		uri := redactSecrets(c.Request.URL.RequestURI())
		entry := logrus.WithFields(logrus.Fields{
			"hostname":   hostname,
			"statusCode": statusCode,
			"latency":    latency, // time to process
			"clientIP":   c.ClientIP(),
			"method":     c.Request.Method,
			"path":       uri,
			"referer":    c.Request.Referer(),
			"size":       dataLength,
			"userAgent":  c.Request.UserAgent(),
		})

		if len(c.Errors) > 0 {
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		} else {
			msg := fmt.Sprintf("%s %s %d %d (%dms)", c.Request.Method, uri, statusCode, dataLength, latency)
			if statusCode >= http.StatusInternalServerError {
				entry.Error(msg)
			} else if statusCode >= http.StatusBadRequest {
				entry.Warn(msg)
			} else {
				entry.Info(msg)
			}
		}
	}
}
