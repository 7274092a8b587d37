// Package extraction calls the external document-extraction vendor: a parse
// operation turning raw document bytes into markdown, followed by a
// structured-extraction operation turning that markdown into fields matching
// the bank-statement schema.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/openomi/pof-auditor/internal/utils"
)

type Client interface {
	Parse(ctx context.Context, filename string, data []byte) (string, error)
	Extract(ctx context.Context, markdown string) (map[string]any, error)
}

type adeClient struct {
	baseURL      string
	apiKey       string
	parseModel   string
	extractModel string
	schema       map[string]any
	logger       *utils.Logger
	client       *http.Client
}

type parseResponse struct {
	Markdown string `json:"markdown"`
	Error    *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type extractRequest struct {
	Schema   map[string]any `json:"schema"`
	Markdown string         `json:"markdown"`
	Model    string         `json:"model"`
}

type extractResponse struct {
	Extraction map[string]any `json:"extraction"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewADEClient(baseURL, apiKey, parseModel, extractModel string, extractionSchema map[string]any, logger *utils.Logger) Client {
	return &adeClient{
		baseURL:      baseURL,
		apiKey:       apiKey,
		parseModel:   parseModel,
		extractModel: extractModel,
		schema:       extractionSchema,
		logger:       logger,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (c *adeClient) Parse(ctx context.Context, filename string, data []byte) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("document", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write form file: %w", err)
	}
	if err := writer.WriteField("model", c.parseModel); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/parse", &body)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var parsed parseResponse
	if err := c.do(req, &parsed); err != nil {
		return "", err
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("parse failed: %s", parsed.Error.Message)
	}
	if parsed.Markdown == "" {
		return "", fmt.Errorf("parse failed: no markdown returned")
	}

	return parsed.Markdown, nil
}

func (c *adeClient) Extract(ctx context.Context, markdown string) (map[string]any, error) {
	reqBody := extractRequest{
		Schema:   c.schema,
		Markdown: markdown,
		Model:    c.extractModel,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/extract", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	var extracted extractResponse
	if err := c.do(req, &extracted); err != nil {
		return nil, err
	}

	if extracted.Error != nil {
		return nil, fmt.Errorf("extraction failed: %s", extracted.Error.Message)
	}
	if len(extracted.Extraction) == 0 {
		return nil, fmt.Errorf("extraction failed: no extraction returned")
	}

	return extracted.Extraction, nil
}

func (c *adeClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("extraction API error", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("extraction API returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}
