package aisdk

import (
	"context"
	"fmt"
	"strings"
)

// TextToImageOptions carries the union of parameters the text-to-image
// models accept. Each model adapter validates and forwards only the fields
// it understands.
type TextToImageOptions struct {
	Prompt         string
	Width          *int
	Height         *int
	MaxImages      *int
	Size           string
	AspectRatio    string
	OutputFormat   string
	OutputQuality  *int
	NegativePrompt string
	Sequential     string
}

// TextToImage dispatches a prompt to the requested text-to-image model and
// returns the raw provider output.
func TextToImage(ctx context.Context, client Client, model string, opts TextToImageOptions) (interface{}, error) {
	if strings.TrimSpace(opts.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	switch model {
	case ModelSeedream4:
		return seedream4TextToImage(ctx, client, opts)
	case ModelImagen4:
		return imagen4TextToImage(ctx, client, opts)
	case ModelFluxPro:
		return fluxProTextToImage(ctx, client, opts)
	default:
		return nil, fmt.Errorf("text-to-image model %q is not supported", model)
	}
}

func seedream4TextToImage(ctx context.Context, client Client, opts TextToImageOptions) (interface{}, error) {
	input := map[string]interface{}{
		"prompt": opts.Prompt,
	}

	if opts.Size != "" {
		switch opts.Size {
		case "1K", "2K", "4K", "custom":
			input["size"] = opts.Size
		default:
			return nil, fmt.Errorf("size must be one of 1K, 2K, 4K, custom")
		}
	}
	if opts.Width != nil {
		if *opts.Width < 1024 || *opts.Width > 2048 {
			return nil, fmt.Errorf("width must be between 1024 and 2048")
		}
		input["width"] = *opts.Width
	}
	if opts.Height != nil {
		if *opts.Height < 1024 || *opts.Height > 2048 {
			return nil, fmt.Errorf("height must be between 1024 and 2048")
		}
		input["height"] = *opts.Height
	}
	if opts.MaxImages != nil {
		if *opts.MaxImages < 1 || *opts.MaxImages > 15 {
			return nil, fmt.Errorf("max_images must be between 1 and 15")
		}
		input["max_images"] = *opts.MaxImages
	}
	if opts.Sequential != "" {
		switch opts.Sequential {
		case "disabled", "auto":
			input["sequential_image_generation"] = opts.Sequential
		default:
			return nil, fmt.Errorf("sequential_image_generation must be disabled or auto")
		}
	}
	if opts.AspectRatio != "" {
		input["aspect_ratio"] = opts.AspectRatio
	}

	return client.Run(ctx, ModelSeedream4, input)
}

func imagen4TextToImage(ctx context.Context, client Client, opts TextToImageOptions) (interface{}, error) {
	input := map[string]interface{}{
		"prompt": opts.Prompt,
	}

	if opts.AspectRatio != "" {
		switch opts.AspectRatio {
		case "1:1", "9:16", "16:9", "3:4", "4:3":
			input["aspect_ratio"] = opts.AspectRatio
		default:
			return nil, fmt.Errorf("aspect_ratio must be one of 1:1, 9:16, 16:9, 3:4, 4:3")
		}
	}
	if opts.OutputFormat != "" {
		switch opts.OutputFormat {
		case "jpg", "png":
			input["output_format"] = opts.OutputFormat
		default:
			return nil, fmt.Errorf("output_format must be jpg or png")
		}
	}

	return client.Run(ctx, ModelImagen4, input)
}

func fluxProTextToImage(ctx context.Context, client Client, opts TextToImageOptions) (interface{}, error) {
	input := map[string]interface{}{
		"prompt": opts.Prompt,
	}

	if opts.Width != nil {
		if *opts.Width < 256 || *opts.Width > 1440 {
			return nil, fmt.Errorf("width must be between 256 and 1440")
		}
		input["width"] = *opts.Width
	}
	if opts.Height != nil {
		if *opts.Height < 256 || *opts.Height > 1440 {
			return nil, fmt.Errorf("height must be between 256 and 1440")
		}
		input["height"] = *opts.Height
	}
	if opts.OutputQuality != nil {
		if *opts.OutputQuality < 0 || *opts.OutputQuality > 100 {
			return nil, fmt.Errorf("output_quality must be between 0 and 100")
		}
		input["output_quality"] = *opts.OutputQuality
	}
	if opts.OutputFormat != "" {
		input["output_format"] = opts.OutputFormat
	}

	return client.Run(ctx, ModelFluxPro, input)
}
