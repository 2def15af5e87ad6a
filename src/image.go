package bookforge

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ImageClient is the cover-art collaborator. Implementations return raw
// image bytes (PNG or JPEG).
type ImageClient interface {
	ImageGenerate(ctx context.Context, prompt string, width, height int, progress Progressor) ([]byte, error)
}

// SDWebUIClient generates images through a Stable Diffusion WebUI instance's
// REST API.
type SDWebUIClient struct {
	baseURL string
	http    *http.Client
}

const (
	defaultImageSteps = 28
	defaultCFGScale   = 3.0
)

func NewSDWebUIClient(baseURL string) *SDWebUIClient {
	return &SDWebUIClient{
		baseURL: baseURL,
		// SD generation can take a while
		http: &http.Client{Timeout: 5 * time.Minute},
	}
}

// sdWebUIRequest represents the request structure for the Stable Diffusion WebUI API
type sdWebUIRequest struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Steps          int     `json:"steps"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	CFGScale       float64 `json:"cfg_scale,omitempty"`
	BatchSize      int     `json:"batch_size,omitempty"`
}

// sdWebUIResponse represents the response structure from the Stable Diffusion WebUI API
type sdWebUIResponse struct {
	Images []string `json:"images"`
	Info   string   `json:"info"`
	Error  string   `json:"error,omitempty"`
}

func (c *SDWebUIClient) ImageGenerate(ctx context.Context, prompt string, width, height int, progress Progressor) ([]byte, error) {
	pr := orNull(progress)

	if width == 0 {
		width = 512
	}
	if height == 0 {
		height = 768
	}
	if c.baseURL == "" {
		return nil, fmt.Errorf("sd-webui url not configured")
	}

	pr.UpdateOutput(fmt.Sprintf("Starting image generation: prompt=%q, width=%d, height=%d",
		prompt, width, height))

	requestData := sdWebUIRequest{
		Prompt:    prompt,
		Steps:     defaultImageSteps,
		Width:     width,
		Height:    height,
		CFGScale:  defaultCFGScale,
		BatchSize: 1,
	}

	jsonData, err := json.Marshal(requestData)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sdapi/v1/txt2img", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	pr.UpdateOutput("Sending request to SD-WebUI...")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, body: %s", resp.StatusCode, string(body))
	}

	var sdResponse sdWebUIResponse
	if err := json.Unmarshal(body, &sdResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(sdResponse.Images) == 0 {
		return nil, ErrNoImage
	}

	imageBytes, err := base64.StdEncoding.DecodeString(sdResponse.Images[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	pr.UpdateOutput("Image generation completed successfully")
	return imageBytes, nil
}
