package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"hrdesk/internal/domain"
	"hrdesk/internal/service"
)

const requestIDHeader = "X-Request-ID"

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	healthH *HealthHandler,
	authH *AuthHandler,
	adminH *AdminHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/", healthH.Root)
	r.GET("/healthz", healthH.Healthz)

	auth := r.Group("/auth")
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)

	admin := r.Group("/admin", JWTAuthMiddleware(jwtSvc))
	admin.POST("/send-test-email", RequireRoles(domain.RoleAdmin), adminH.SendTestEmail)
	admin.POST("/notify", RequireRoles(domain.RoleAdmin), adminH.NotifyAdmin)
	admin.GET("/mail-log", RequireRoles(domain.RoleAdmin), adminH.MailLog)
	admin.POST("/reports/analyze", RequireRoles(domain.RoleAdmin, domain.RoleHR), adminH.AnalyzeReport)

	return r
}

// requestIDMiddleware propaga o genera X-Request-ID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDHeader)),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
