package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const maxErrorBody = 2048

// Client define las llamadas al servicio LLM externo.
type Client interface {
	AnalyzeReport(ctx context.Context, req ReportRequest) (json.RawMessage, error)
	Health(ctx context.Context) error
}

// EmployeeData es el bloque de datos del empleado que recibe el análisis.
type EmployeeData struct {
	EmployeeID  string          `json:"employee_id"`
	CompanyData json.RawMessage `json:"company_data"`
}

// ReportRequest es el cuerpo de POST /report/analyze.
type ReportRequest struct {
	EmployeeData EmployeeData `json:"employee_data"`
	ChainID      string       `json:"chain_id"`
}

// StatusError se devuelve cuando el servicio responde con un status no 2xx.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm http error: status=%d", e.StatusCode)
}

// HTTPClient implementa Client contra LLM_ADDR.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye un cliente HTTP apuntando al servicio LLM.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (c *HTTPClient) AnalyzeReport(ctx context.Context, reqBody ReportRequest) (json.RawMessage, error) {
	if strings.TrimSpace(reqBody.EmployeeData.EmployeeID) == "" {
		return nil, fmt.Errorf("employee id is required")
	}
	if len(reqBody.EmployeeData.CompanyData) == 0 {
		reqBody.EmployeeData.CompanyData = json.RawMessage("{}")
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/report/analyze", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	respBody, err := c.do(req)
	if err != nil {
		return nil, err
	}
	report, ok := normalizeReport(respBody)
	if !ok {
		return nil, fmt.Errorf("llm invalid json response")
	}
	return report, nil
}

// Health hace GET a la raíz del servicio.
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	_, err = c.do(req)
	return err
}

func (c *HTTPClient) do(req *http.Request) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := string(respBody)
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		c.logger.Warn("llm error response",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", body),
		)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return respBody, nil
}
