// Package server exposes decryption over HTTP.
//
// Endpoints:
//   - GET  /health       liveness and whether a keystream is preloaded
//   - GET  /api/info     service description
//   - POST /api/decrypt  multipart upload of a video, returns the decrypted bytes
package server

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/idelchi/unveil/pkg/keystream"
)

// Response headers describing the decryption outcome.
const (
	HeaderContainerValid = "X-Container-Valid"
	HeaderMarkerOffset   = "X-Marker-Offset"
	HeaderPrefix         = "X-Decrypted-Prefix"
	HeaderDuration       = "X-Decrypt-Duration"
)

const serviceName = "unveil"

// Options configures the HTTP service.
type Options struct {
	// Version is reported by /health and /api/info.
	Version string
	// MaxUpload is the largest accepted video in bytes.
	MaxUpload int64
	// Keystream is used when a request does not carry its own. May be nil.
	Keystream keystream.Keystream
	// Quiet disables request logging.
	Quiet bool
}

// Server holds the handlers' shared, read-only state.
type Server struct {
	opts Options
}

// New builds the gin engine with all routes registered.
func New(opts Options) *gin.Engine {
	srv := &Server{opts: opts}

	engine := gin.New()

	if !opts.Quiet {
		engine.Use(gin.Logger())
	}

	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Origin", "Content-Type"},
		ExposeHeaders:   []string{HeaderContainerValid, HeaderMarkerOffset, HeaderPrefix, HeaderDuration},
		MaxAge:          12 * time.Hour,
	}))

	engine.GET("/health", srv.health)
	engine.GET("/api/info", srv.info)
	engine.POST("/api/decrypt", srv.decrypt)

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":     "endpoint not found",
			"path":      c.Request.URL.Path,
			"available": endpoints(),
		})
	})

	return engine
}

func endpoints() []string {
	return []string{"GET /health", "GET /api/info", "POST /api/decrypt"}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"service":          serviceName,
		"version":          s.opts.Version,
		"keystream_loaded": s.opts.Keystream != nil,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":     serviceName,
		"description": "Reverses prefix-XOR obfuscation of video files with an exported keystream",
		"version":     s.opts.Version,
		"max_upload":  humanize.IBytes(uint64(max(0, s.opts.MaxUpload))), //nolint:gosec // clamped
		"endpoints":   endpoints(),
	})
}
