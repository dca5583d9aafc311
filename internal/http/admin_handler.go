package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hrdesk/internal/llm"
	"hrdesk/internal/service"
)

// AdminHandler mantiene dependencias para los endpoints administrativos.
type AdminHandler struct {
	logger *zap.Logger
	mail   *service.MailService
	llm    llm.Client
}

// NewAdminHandler crea una instancia de AdminHandler.
func NewAdminHandler(logger *zap.Logger, mail *service.MailService, llmClient llm.Client) *AdminHandler {
	return &AdminHandler{
		logger: logger,
		mail:   mail,
		llm:    llmClient,
	}
}

// SendTestEmail maneja POST /admin/send-test-email. Acepta ?email= o {"email": ...}.
func (h *AdminHandler) SendTestEmail(c *gin.Context) {
	to := c.Query("email")
	if to == "" {
		var req struct {
			Email string `json:"email" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		to = req.Email
	}

	if err := h.mail.SendTestEmail(c.Request.Context(), to); err != nil {
		h.writeMailError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully"})
}

// NotifyAdmin maneja POST /admin/notify.
func (h *AdminHandler) NotifyAdmin(c *gin.Context) {
	var req struct {
		Subject string `json:"subject"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := h.mail.NotifyAdmin(c.Request.Context(), req.Subject, req.Message); err != nil {
		h.writeMailError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification sent"})
}

// AnalyzeReport maneja POST /admin/reports/analyze reenviando al servicio LLM.
func (h *AdminHandler) AnalyzeReport(c *gin.Context) {
	var req struct {
		EmployeeID  string          `json:"employee_id" binding:"required"`
		ChainID     string          `json:"chain_id"`
		CompanyData json.RawMessage `json:"company_data"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	report, err := h.llm.AnalyzeReport(c.Request.Context(), llm.ReportRequest{
		EmployeeData: llm.EmployeeData{
			EmployeeID:  req.EmployeeID,
			CompanyData: req.CompanyData,
		},
		ChainID: req.ChainID,
	})
	if err != nil {
		var statusErr *llm.StatusError
		if errors.As(err, &statusErr) {
			h.logger.Warn("llm rejected report", zap.Int("upstream_status", statusErr.StatusCode))
			c.JSON(http.StatusBadGateway, gin.H{"error": "report analysis failed", "upstream_status": statusErr.StatusCode})
			return
		}
		h.logger.Error("analyze report failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "report analysis failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee_id": req.EmployeeID, "chain_id": req.ChainID, "report": report})
}

// MailLog maneja GET /admin/mail-log?limit=.
func (h *AdminHandler) MailLog(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}

	records, err := h.mail.RecentMail(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list mail log failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list mail log"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}

func (h *AdminHandler) writeMailError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	case errors.Is(err, service.ErrMailMisconfigured):
		h.logger.Error("mail misconfigured", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "email not configured"})
	case errors.Is(err, service.ErrEmailSendFailure):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "email delivery unavailable"})
	default:
		h.logger.Error("mail request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send email"})
	}
}
