package llm

import (
	"context"
	"encoding/json"
)

// MockClient permite tests sin llamar al servicio LLM real.
type MockClient struct {
	Report    json.RawMessage
	Err       error
	HealthErr error

	LastRequest ReportRequest
}

func (m *MockClient) AnalyzeReport(_ context.Context, req ReportRequest) (json.RawMessage, error) {
	m.LastRequest = req
	return m.Report, m.Err
}

func (m *MockClient) Health(_ context.Context) error {
	return m.HealthErr
}
