package aisdk

import (
	"context"
	"fmt"
	"strings"
)

// TextToVideoOptions carries the parameters of the text-to-video models.
type TextToVideoOptions struct {
	Prompt         string
	NegativePrompt string
	Resolution     string
	Width          *int
	Height         *int
	Seed           *int
}

// ImageToVideoOptions carries the parameters of the image-to-video models.
// Image is the start frame and is required by every model in the set.
type ImageToVideoOptions struct {
	Prompt         string
	Image          string
	Duration       *int
	Mode           string
	NegativePrompt string
	Resolution     string
}

// TextToVideo dispatches a prompt to the requested text-to-video model.
func TextToVideo(ctx context.Context, client Client, model string, opts TextToVideoOptions) (interface{}, error) {
	if strings.TrimSpace(opts.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	switch model {
	case ModelVeo3:
		return veo3TextToVideo(ctx, client, opts)
	case ModelWanT2V:
		return wanTextToVideo(ctx, client, opts)
	default:
		return nil, fmt.Errorf("text-to-video model %q is not supported", model)
	}
}

// ImageToVideo dispatches a start frame and prompt to the requested
// image-to-video model.
func ImageToVideo(ctx context.Context, client Client, model string, opts ImageToVideoOptions) (interface{}, error) {
	if opts.Image == "" {
		return nil, fmt.Errorf("image is required")
	}

	switch model {
	case ModelKlingV21:
		return klingImageToVideo(ctx, client, opts)
	case ModelWanI2V:
		return wanImageToVideo(ctx, client, opts)
	default:
		return nil, fmt.Errorf("image-to-video model %q is not supported", model)
	}
}

func veo3TextToVideo(ctx context.Context, client Client, opts TextToVideoOptions) (interface{}, error) {
	input := map[string]interface{}{
		"prompt": opts.Prompt,
	}

	if opts.Resolution != "" {
		switch opts.Resolution {
		case "720p", "1080p":
			input["resolution"] = opts.Resolution
		default:
			return nil, fmt.Errorf("resolution must be 720p or 1080p")
		}
	}
	if opts.NegativePrompt != "" {
		input["negative_prompt"] = opts.NegativePrompt
	}

	return client.Run(ctx, ModelVeo3, input)
}

func wanTextToVideo(ctx context.Context, client Client, opts TextToVideoOptions) (interface{}, error) {
	input := map[string]interface{}{
		"prompt": opts.Prompt,
	}

	if opts.Width != nil && opts.Height != nil {
		megapixels := float64(*opts.Width**opts.Height) / 1_000_000
		if megapixels > 1 && megapixels < 0.25 {
			return nil, fmt.Errorf("resolution must be between 0.25 and 1 megapixels")
		}
		input["width"] = *opts.Width
		input["height"] = *opts.Height
	}
	if opts.Seed != nil {
		input["seed"] = *opts.Seed
	}
	if opts.NegativePrompt != "" {
		input["negative_prompt"] = opts.NegativePrompt
	}

	return client.Run(ctx, ModelWanT2V, input)
}

func klingImageToVideo(ctx context.Context, client Client, opts ImageToVideoOptions) (interface{}, error) {
	input := map[string]interface{}{
		"start_image": opts.Image,
	}

	if opts.Prompt != "" {
		input["prompt"] = opts.Prompt
	}
	if opts.Duration != nil {
		switch *opts.Duration {
		case 5, 10:
			input["duration"] = *opts.Duration
		default:
			return nil, fmt.Errorf("duration must be 5 or 10 seconds")
		}
	}
	if opts.Mode != "" {
		switch opts.Mode {
		case "standard", "pro":
			input["mode"] = opts.Mode
		default:
			return nil, fmt.Errorf("mode must be standard or pro")
		}
	}
	if opts.NegativePrompt != "" {
		input["negative_prompt"] = opts.NegativePrompt
	}

	return client.Run(ctx, ModelKlingV21, input)
}

func wanImageToVideo(ctx context.Context, client Client, opts ImageToVideoOptions) (interface{}, error) {
	input := map[string]interface{}{
		"image": opts.Image,
	}

	if opts.Prompt != "" {
		input["prompt"] = opts.Prompt
	}
	if opts.Resolution != "" {
		switch opts.Resolution {
		case "480p", "720p":
			input["resolution"] = opts.Resolution
		default:
			return nil, fmt.Errorf("resolution must be 480p or 720p")
		}
	}

	return client.Run(ctx, ModelWanI2V, input)
}
