package bookforge

import (
	"context"
	"fmt"

	"github.com/opd-ai/horde"
)

// HordeClient generates images through the AI Horde, used as the fallback
// backend when no local SD-WebUI instance is configured.
type HordeClient struct {
	*horde.Client
}

func NewHordeClient(apiKey string) *HordeClient {
	return &HordeClient{
		Client: horde.NewClient(apiKey),
	}
}

func (c *HordeClient) ImageGenerate(ctx context.Context, prompt string, width, height int, progress Progressor) ([]byte, error) {
	pr := orNull(progress)

	if width == 0 {
		width = horde.DefaultWidth
		pr.UpdateOutput(fmt.Sprintf("Using default width: %d", width))
	}
	if height == 0 {
		height = horde.DefaultHeight
		pr.UpdateOutput(fmt.Sprintf("Using default height: %d", height))
	}

	pr.UpdateOutput(fmt.Sprintf("Starting image generation: prompt=%q, width=%d, height=%d",
		prompt, width, height))

	req := horde.GenerationRequest{
		Prompt: prompt,
		Params: horde.Params{
			Steps:     horde.DefaultSteps,
			Width:     width,
			Height:    height,
			ModelName: horde.DefaultModel,
		},
	}

	pr.UpdateOutput("Submitting generation request...")
	resp, err := c.RequestGeneration(req)
	if err != nil {
		return nil, fmt.Errorf("requesting generation: %w", err)
	}

	pr.UpdateOutput("Waiting for generation to complete...")
	status, err := c.WaitForCompletion(resp.ID)
	if err != nil {
		return nil, fmt.Errorf("waiting for completion: %w", err)
	}
	if len(status.Generation) == 0 {
		return nil, ErrNoImage
	}

	pr.UpdateOutput("Downloading generated image...")
	imageData, err := c.DownloadImage(status.Generation[0].Image)
	if err != nil {
		return nil, fmt.Errorf("downloading image: %w", err)
	}
	pr.UpdateOutput(fmt.Sprintf("Successfully downloaded image: %d bytes", len(imageData)))

	return imageData, nil
}
