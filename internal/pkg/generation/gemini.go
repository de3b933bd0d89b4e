package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lunarworks/LanternFox/internal/pkg/apperr"
	"github.com/lunarworks/LanternFox/internal/pkg/env"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
const defaultGeminiModel = "gemini-2.0-flash-exp-image-generation"

// GeminiClient calls the hosted image-generation API. The actual image
// synthesis is entirely the upstream service's concern; this client only
// assembles the request and extracts the returned image data.
type GeminiClient struct {
	APIKey  string
	BaseURL string
	Model   string

	HTTPClient *http.Client
}

func NewGeminiClientFromEnv() *GeminiClient {
	return &GeminiClient{
		APIKey:  strings.TrimSpace(env.GetEnv("GEMINI_API_KEY", "")),
		BaseURL: strings.TrimRight(env.GetEnv("GEMINI_API_BASE_URL", defaultGeminiBaseURL), "/"),
		Model:   env.GetEnv("GEMINI_MODEL", defaultGeminiModel),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ImageInput is an optional reference image sent alongside the prompt.
type ImageInput struct {
	Base64Data string
	MimeType   string
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
}

type geminiRequest struct {
	Contents []struct {
		Parts []geminiPart `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseModalities []string `json:"responseModalities"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateImage sends the prompt (and optional reference image) upstream
// and returns the first generated image as a data URL.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string, image *ImageInput) (string, error) {
	if c.APIKey == "" {
		return "", apperr.Wrap(apperr.CodeConfiguration, "GEMINI_API_KEY is not configured", apperr.ErrConfiguration)
	}
	if strings.TrimSpace(prompt) == "" {
		return "", apperr.Wrap(apperr.CodeInvalidInput, "prompt is required", apperr.ErrInvalidInput)
	}

	var reqBody geminiRequest
	parts := make([]geminiPart, 0, 2)
	if image != nil {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			Data:     image.Base64Data,
			MimeType: image.MimeType,
		}})
	}
	parts = append(parts, geminiPart{Text: prompt})
	reqBody.Contents = []struct {
		Parts []geminiPart `json:"parts"`
	}{{Parts: parts}}
	reqBody.GenerationConfig.ResponseModalities = []string{"TEXT", "IMAGE"}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.BaseURL, c.Model, c.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", apperr.Wrap(apperr.CodeExternalAPI, fmt.Sprintf("generation request failed: %v", err), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return "", apperr.Wrap(apperr.CodeExternalAPI, "reading generation response failed", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperr.Wrap(apperr.CodeExternalAPI, "malformed generation response", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := "failed to generate image"
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", apperr.Wrap(apperr.CodeExternalAPI, msg, nil)
	}

	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				mime := part.InlineData.MimeType
				if mime == "" {
					mime = "image/png"
				}
				return "data:" + mime + ";base64," + part.InlineData.Data, nil
			}
		}
	}
	return "", apperr.Wrap(apperr.CodeExternalAPI, "generation response contained no image", nil)
}
