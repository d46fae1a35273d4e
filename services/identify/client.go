package identify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// apiError carries the upstream error envelope so failures can be classified
// on the structured code instead of a flattened message string.
type apiError struct {
	StatusCode int
	Code       string
	Type       string
	Message    string
}

func (e *apiError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("model request failed with status %d", e.StatusCode)
}

// isModelUnavailable reports whether an error means the requested model does
// not exist upstream, which is the only failure worth trying the next fallback
// model for. The structured code is checked first; the keyword pair covers
// gateways that return only a message.
func isModelUnavailable(err error) bool {
	var ae *apiError
	if !errors.As(err, &ae) {
		return false
	}
	switch ae.Code {
	case "model_not_found", "model_not_available":
		return true
	}
	msg := strings.ToLower(ae.Message)
	if !strings.Contains(msg, "model") {
		return false
	}
	return strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "not found") ||
		strings.Contains(msg, "invalid")
}

type modelClient struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func newModelClient(baseURL, apiKey string, httpc *http.Client) *modelClient {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &modelClient{
		baseURL: baseURL,
		apiKey:  strings.TrimSpace(apiKey),
		httpc:   httpc,
	}
}

// createResponse asks one model to answer the question under the structured
// output schema and returns the raw output text. The caller decides whether an
// empty or non-JSON text is an error.
func (c *modelClient) createResponse(ctx context.Context, model, system, user string) (string, error) {
	payload := map[string]any{
		"model": model,
		"input": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"text": map[string]any{"format": responseTextFormat()},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= 400 {
		return "", decodeAPIError(resp.StatusCode, data)
	}

	var parsed struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode model response: %w", err)
	}
	if parsed.OutputText != "" {
		return parsed.OutputText, nil
	}
	if len(parsed.Output) > 0 && len(parsed.Output[0].Content) > 0 {
		return parsed.Output[0].Content[0].Text, nil
	}
	return "", nil
}

func decodeAPIError(status int, body []byte) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)
	message := strings.TrimSpace(payload.Error.Message)
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	return &apiError{
		StatusCode: status,
		Code:       payload.Error.Code,
		Type:       payload.Error.Type,
		Message:    message,
	}
}
