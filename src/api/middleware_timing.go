package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// slowRequestThreshold is the latency above which a request is logged as slow.
// WebSocket upgrades are exempt since they live as long as the connection.
const slowRequestThreshold = 500 * time.Millisecond

// processingTimeWriter adds a Server-Timing header on the first write
type processingTimeWriter struct {
	gin.ResponseWriter
	startTime     time.Time
	headerWritten bool
}

func (w *processingTimeWriter) writeServerTimingHeader() {
	if w.headerWritten {
		return
	}
	w.headerWritten = true
	w.Header().Set("Server-Timing", fmt.Sprintf("total;dur=%.2f;desc=\"Shell API processing time\"", milliseconds(time.Since(w.startTime))))
}

func (w *processingTimeWriter) WriteHeader(statusCode int) {
	w.writeServerTimingHeader()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *processingTimeWriter) Write(data []byte) (int, error) {
	w.writeServerTimingHeader()
	return w.ResponseWriter.Write(data)
}

func (w *processingTimeWriter) WriteString(s string) (int, error) {
	w.writeServerTimingHeader()
	return w.ResponseWriter.WriteString(s)
}

func (w *processingTimeWriter) WriteHeaderNow() {
	w.writeServerTimingHeader()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *processingTimeWriter) Flush() {
	w.writeServerTimingHeader()
	w.ResponseWriter.Flush()
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

func processingTimeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Writer = &processingTimeWriter{ResponseWriter: c.Writer, startTime: start}

		c.Next()

		elapsed := time.Since(start)
		if elapsed > slowRequestThreshold && !c.IsWebsocket() {
			logrus.WithFields(logrus.Fields{
				"method":  c.Request.Method,
				"route":   c.FullPath(),
				"latency": milliseconds(elapsed),
			}).Warn("Slow request")
		}
	}
}
