// Package metrics provides Prometheus metrics for the shell API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "win11web_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "win11web_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Simulated command metrics
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "win11web_commands_total",
			Help: "Total simulated commands executed",
		},
		[]string{"command", "status"},
	)

	// Terminal session metrics
	terminalSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "win11web_terminal_sessions_active",
			Help: "Number of registered terminal sessions",
		},
	)

	terminalSessionsDestroyed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "win11web_terminal_sessions_destroyed_total",
			Help: "Total terminal sessions destroyed",
		},
	)

	websocketConnectionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "win11web_websocket_connections_active",
			Help: "Number of open WebSocket connections",
		},
		[]string{"endpoint"},
	)

	// Filesystem metrics
	filesystemNodes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "win11web_filesystem_nodes",
			Help: "Number of nodes in the virtual filesystem",
		},
		[]string{"type"},
	)

	filesystemBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "win11web_filesystem_bytes",
			Help: "Bytes of file content held in the virtual filesystem",
		},
	)

	recycleBinItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "win11web_recycle_bin_items",
			Help: "Number of entries in the recycle bin",
		},
	)

	// MCP metrics
	mcpToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "win11web_mcp_tool_calls_total",
			Help: "Total MCP tool calls",
		},
		[]string{"tool", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCommand records one simulated command by its canonical name.
func RecordCommand(command string, exitCode int) {
	status := "success"
	if exitCode != 0 {
		status = "error"
	}
	commandsTotal.WithLabelValues(command, status).Inc()
}

// SetTerminalSessionsActive sets the number of registered sessions.
func SetTerminalSessionsActive(count int) {
	terminalSessionsActive.Set(float64(count))
}

// RecordTerminalSessionDestroyed records a destroyed session.
func RecordTerminalSessionDestroyed() {
	terminalSessionsDestroyed.Inc()
}

// WebSocketOpened and WebSocketClosed track open connections per endpoint.
func WebSocketOpened(endpoint string) {
	websocketConnectionsActive.WithLabelValues(endpoint).Inc()
}

func WebSocketClosed(endpoint string) {
	websocketConnectionsActive.WithLabelValues(endpoint).Dec()
}

// SetFilesystemStats publishes the size of the virtual filesystem.
func SetFilesystemStats(files, directories int, bytes int64) {
	filesystemNodes.WithLabelValues("file").Set(float64(files))
	filesystemNodes.WithLabelValues("directory").Set(float64(directories))
	filesystemBytes.Set(float64(bytes))
}

// SetRecycleBinItems sets the number of recycle bin entries.
func SetRecycleBinItems(count int) {
	recycleBinItems.Set(float64(count))
}

// RecordMCPToolCall records an MCP tool invocation.
func RecordMCPToolCall(tool string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	mcpToolCallsTotal.WithLabelValues(tool, status).Inc()
}
