package generation

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

	"github.com/dmitrijs2005/ordo/internal/client/imagex"
	"github.com/dmitrijs2005/ordo/internal/client/models"
	"github.com/dmitrijs2005/ordo/internal/logging"
	"github.com/tidwall/gjson"
)

const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-2.5-flash-image"

	maxErrorBody = 64 << 10
	maxBody      = 32 << 20
)

// Config configures the model endpoint and HTTP behavior.
type Config struct {
	Endpoint   string
	APIKey     string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
	MaxEdge    int
	Quality    int
	Logger     logging.Logger
}

// Result is the outcome of one generation. Image is zero when the model
// returned no image part; Steps holds StepCount entries or none.
type Result struct {
	Image models.Image
	Steps []models.OrganizingStep
}

type Client struct {
	cfg Config
}

func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.Endpoint) == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if strings.TrimSpace(cfg.Model) == "" {
		cfg.Model = DefaultModel
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.MaxEdge <= 0 {
		cfg.MaxEdge = imagex.UploadMaxEdge
	}
	if cfg.Quality <= 0 {
		cfg.Quality = imagex.UploadQuality
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	cfg.Logger = cfg.Logger.With("module", "generation")
	return &Client{cfg: cfg}
}

// CheckConfig validates the API key without contacting the provider.
func (c *Client) CheckConfig() error {
	return CheckKey(c.cfg.APIKey)
}

// Transform sends the photo and the style instruction in one request.
func (c *Client) Transform(ctx context.Context, before models.Image, style models.OrganizingStyle) (Result, error) {
	if err := c.CheckConfig(); err != nil {
		return Result{}, err
	}
	if !style.Valid() {
		return Result{}, fmt.Errorf("%w: %w", ErrGeneration, models.ErrUnknownStyle)
	}

	upload, err := imagex.Prepare(before, c.cfg.MaxEdge, c.cfg.Quality)
	if err != nil {
		return Result{}, fmt.Errorf("%w: prepare image: %v", ErrGeneration, err)
	}

	parts := []part{
		{InlineData: &inlineData{MIMEType: upload.MIMEType, Data: base64.StdEncoding.EncodeToString(upload.Data)}},
		{Text: transformInstruction(style)},
	}

	img, text, err := c.generate(ctx, parts)
	if err != nil {
		return Result{}, err
	}

	steps := ExtractSteps(text)
	c.cfg.Logger.Debug(ctx, "transform done", "style", style, "image", !img.IsZero(), "steps", len(steps))
	return Result{Image: img, Steps: steps}, nil
}

// Imagine generates an image from text alone.
func (c *Client) Imagine(ctx context.Context, prompt string) (Result, error) {
	if err := c.CheckConfig(); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(prompt) == "" {
		return Result{}, ErrEmptyPrompt
	}

	img, _, err := c.generate(ctx, []part{{Text: imagineInstruction(prompt)}})
	if err != nil {
		return Result{}, err
	}
	return Result{Image: img}, nil
}

type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents         []content `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

func (c *Client) endpointURL() string {
	return strings.TrimRight(c.cfg.Endpoint, "/") + "/v1beta/models/" + url.PathEscape(c.cfg.Model) + ":generateContent"
}

// generate performs one generateContent call and returns the last image part
// and the concatenation of all text parts.
func (c *Client) generate(ctx context.Context, parts []part) (models.Image, string, error) {
	var body generateRequest
	body.Contents = []content{{Parts: parts}}
	body.GenerationConfig.ResponseModalities = []string{"TEXT", "IMAGE"}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return models.Image{}, "", fmt.Errorf("%w: marshal request: %v", ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL(), bytes.NewReader(requestBody))
	if err != nil {
		return models.Image{}, "", fmt.Errorf("%w: build request: %v", ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", strings.TrimSpace(c.cfg.APIKey))

	start := time.Now()
	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return models.Image{}, "", fmt.Errorf("%w: request failed: %v", ErrGeneration, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		errBody, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		err := classify(res.StatusCode, res.Header, errBody)
		c.cfg.Logger.Warn(ctx, "generation rejected", "status", res.StatusCode, "error", err, "elapsed", time.Since(start))
		return models.Image{}, "", err
	}

	payload, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return models.Image{}, "", fmt.Errorf("%w: read response: %v", ErrGeneration, err)
	}
	c.cfg.Logger.Debug(ctx, "generation response", "bytes", len(payload), "elapsed", time.Since(start))

	return parseResponse(payload)
}

func parseResponse(payload []byte) (models.Image, string, error) {
	if !gjson.ValidBytes(payload) {
		return models.Image{}, "", fmt.Errorf("%w: malformed response", ErrGeneration)
	}

	candidates := gjson.GetBytes(payload, "candidates")
	if len(candidates.Array()) == 0 {
		if reason := gjson.GetBytes(payload, "promptFeedback.blockReason").String(); reason != "" {
			return models.Image{}, "", fmt.Errorf("%w: prompt blocked: %s", ErrGeneration, reason)
		}
		return models.Image{}, "", nil
	}

	var (
		img  models.Image
		text strings.Builder
	)
	for _, p := range gjson.GetBytes(payload, "candidates.0.content.parts").Array() {
		inline := p.Get("inlineData")
		if !inline.Exists() {
			inline = p.Get("inline_data")
		}
		if inline.Exists() {
			data, err := base64.StdEncoding.DecodeString(inline.Get("data").String())
			if err != nil {
				return models.Image{}, "", fmt.Errorf("%w: image part: %v", ErrGeneration, err)
			}
			mime := inline.Get("mimeType").String()
			if mime == "" {
				mime = inline.Get("mime_type").String()
			}
			if mime == "" {
				mime = models.MIMETypeJPEG
			}
			if len(data) > 0 {
				img = models.Image{MIMEType: mime, Data: data}
			}
			continue
		}
		if t := p.Get("text"); t.Exists() {
			text.WriteString(t.String())
		}
	}
	return img, text.String(), nil
}
