package extractor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/meshcompare/backend/internal/domain"
)

// maxResponseBytes caps how much of a provider response is read
const maxResponseBytes = 8 << 20

// Client calls a Gemini-style generateContent endpoint to extract product and
// price data from an uploaded file
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new extraction API client. perMinute bounds the number
// of calls sent to the provider.
func NewClient(apiKey, baseURL, model string, perMinute int) *Client {
	if perMinute <= 0 {
		perMinute = 15
	}
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 2)

	return &Client{
		httpClient: &http.Client{
			// The caller bounds every extraction with its own context deadline
			Timeout: 5 * time.Minute,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		model:       model,
		rateLimiter: limiter,
	}
}

// SetDebug enables logging of raw provider payloads
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType"`
	Temperature      float64 `json:"temperature"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Extract sends the file to the provider and decodes the answer into the
// variant requested by req.Kind. The call is not retried.
func (c *Client) Extract(ctx context.Context, req domain.ExtractionRequest) (*domain.ExtractionResult, error) {
	prompt, ok := prompts[req.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidRequest, req.Kind)
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	mimeType := req.MIMEType
	if mimeType == "" {
		mimeType = http.DetectContentType(req.Data)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{
			{Text: prompt},
			{InlineData: &inlineData{MIMEType: mimeType, Data: base64.StdEncoding.EncodeToString(req.Data)}},
		}}},
		GenerationConfig: generationConfig{ResponseMIMEType: "application/json"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s",
		c.baseURL, url.PathEscape(c.model), url.Values{"key": {c.apiKey}}.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", "MeshCompare/1.0")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtractionFailure, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrExtractionFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("body", truncate(string(raw), 512)).Msg("[EXTRACT] provider error")
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrExtractionFailure, resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(raw, &genResp); err != nil {
		return nil, fmt.Errorf("%w: provider response is not JSON: %v", domain.ErrExtractionFailure, err)
	}
	if genResp.Error != nil {
		return nil, fmt.Errorf("%w: provider error %d: %s", domain.ErrExtractionFailure, genResp.Error.Code, genResp.Error.Message)
	}

	text := firstText(genResp)
	if text == "" {
		return nil, fmt.Errorf("%w: provider returned no content", domain.ErrExtractionFailure)
	}

	if c.debug {
		log.Debug().Str("kind", string(req.Kind)).Str("payload", truncate(text, 2048)).Msg("[EXTRACT] provider payload")
	}

	return Decode(req.Kind, []byte(text))
}

func firstText(resp generateResponse) string {
	for _, cand := range resp.Candidates {
		var sb strings.Builder
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			return s
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
