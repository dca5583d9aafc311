package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrdesk/internal/llm"
)

// Pinger es cualquier dependencia que puede verificar conectividad.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler expone la raíz y el chequeo de salud.
type HealthHandler struct {
	logger  *zap.Logger
	db      Pinger
	llm     llm.Client
	timeout time.Duration
}

func NewHealthHandler(logger *zap.Logger, db Pinger, llmClient llm.Client) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		db:      db,
		llm:     llmClient,
		timeout: 2 * time.Second,
	}
}

// Root maneja GET /.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Welcome to hrdesk."})
}

// Healthz maneja GET /healthz. La base es obligatoria; el LLM solo degrada.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok", "database": "ok", "llm": "ok"}

	if h.db == nil {
		body["database"] = "unconfigured"
		body["status"] = "unavailable"
		status = http.StatusServiceUnavailable
	} else if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("database health check failed", zap.Error(err))
		body["database"] = "unreachable"
		body["status"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	if h.llm == nil {
		body["llm"] = "unconfigured"
	} else if err := h.llm.Health(ctx); err != nil {
		h.logger.Warn("llm health check failed", zap.Error(err))
		body["llm"] = "unreachable"
		if status == http.StatusOK {
			body["status"] = "degraded"
		}
	}

	c.JSON(status, body)
}
