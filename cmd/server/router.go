package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Skufu/medpredict/internal/app"
	"github.com/Skufu/medpredict/internal/audit"
	"github.com/Skufu/medpredict/internal/diagnosis"
)

const requestIDHeader = "X-Request-ID"

type HealthChecker interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	App        *app.App
	DB         HealthChecker
	Audit      audit.Recorder
	Logger     *zap.Logger
	StaticRoot string
}

// PredictRequest carries the raw form values of one submission, either in
// field order or keyed by field key.
type PredictRequest struct {
	Fields []string          `json:"fields"`
	Values map[string]string `json:"values"`
}

type PredictResponse struct {
	Panel     string `json:"panel"`
	Result    string `json:"result"`
	Positive  bool   `json:"positive"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func setupRouter(deps routerDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Audit == nil {
		deps.Audit = audit.Nop{}
	}

	router := gin.New()
	router.Use(
		requestID(),
		accessLog(deps.Logger),
		gin.Recovery(),
		limitBodySize(1<<20), // 1MB max body
		cors.New(cors.Config{
			AllowOrigins:  []string{"*"},
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
			MaxAge:        12 * time.Hour,
		}),
	)

	router.Static("/static", deps.StaticRoot)
	router.GET("/", func(c *gin.Context) {
		deps.Logger.Info("User accessed the app.", zap.String("requestId", c.GetString("requestId")))
		c.File(filepath.Join(deps.StaticRoot, "index.html"))
	})
	router.StaticFile("/styles.css", filepath.Join(deps.StaticRoot, "styles.css"))
	router.StaticFile("/app.js", filepath.Join(deps.StaticRoot, "app.js"))
	router.StaticFile("/config.js", filepath.Join(deps.StaticRoot, "config.js"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if deps.DB == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := deps.DB.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	api := router.Group("/api")
	api.GET("/panels", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"panels": deps.App.Panels()})
	})
	api.POST("/panels/:id/predict", predictHandler(deps))

	return router
}

func predictHandler(deps routerDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		panel, ok := deps.App.Panel(id)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown panel"})
			return
		}

		var req PredictRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		if req.Fields == nil && req.Values == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fields or values is required"})
			return
		}

		raw := req.Fields
		if raw == nil {
			raw = orderValues(panel, req.Values)
		}

		d, err := deps.App.Predict(id, raw)
		if errors.Is(err, app.ErrUnknownPanel) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown panel"})
			return
		}

		reqID := c.GetString("requestId")
		outcome := app.Outcome(d)
		if err := deps.Audit.Record(c.Request.Context(), audit.Entry{
			RequestID: reqID,
			Panel:     id,
			Outcome:   outcome,
		}); err != nil {
			deps.Logger.Warn("audit record failed", zap.Error(err), zap.String("requestId", reqID))
		}

		resp := PredictResponse{
			Panel:     id,
			Result:    d.Text(),
			Positive:  d.Positive,
			OK:        d.OK(),
			RequestID: reqID,
		}
		if !d.OK() {
			resp.Error = app.InlineError(panel, d.Err)
		}

		deps.Logger.Info("prediction", zap.String("panel", id), zap.String("outcome", outcome), zap.String("requestId", reqID))
		c.JSON(http.StatusOK, resp)
	}
}

// orderValues lays keyed values out in field order. Missing keys become
// empty strings, which the pipeline rejects.
func orderValues(panel diagnosis.Panel, values map[string]string) []string {
	raw := make([]string, len(panel.Fields))
	for i, f := range panel.Fields {
		raw[i] = values[f.Key]
	}
	return raw
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if !validRequestID(id) {
			id = uuid.NewString()
		}
		c.Set("requestId", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// validRequestID accepts client ids of up to 64 letters, digits and dashes.
func validRequestID(id string) bool {
	if id == "" || len(id) > 64 {
		return false
	}
	for _, r := range id {
		if !(r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request",
			zap.String("requestId", c.GetString("requestId")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
