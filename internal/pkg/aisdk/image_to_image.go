package aisdk

import (
	"context"
	"fmt"
	"strings"
)

// ImageToImageOptions carries the parameters of the editing models. Image is
// the single-source form, ImageInput the multi-source one; which is required
// depends on the model.
type ImageToImageOptions struct {
	Prompt        string
	Image         string
	ImageInput    []string
	Width         *int
	Height        *int
	MaxImages     *int
	OutputQuality *int
	OutputFormat  string
	AspectRatio   string
	GoFast        bool
}

// ImageToImage dispatches an edit request to the requested model.
func ImageToImage(ctx context.Context, client Client, model string, opts ImageToImageOptions) (interface{}, error) {
	if strings.TrimSpace(opts.Prompt) == "" {
		return nil, fmt.Errorf("prompt is required")
	}

	switch model {
	case ModelQwenImageEdit:
		return qwenImageEdit(ctx, client, opts)
	case ModelSeedream4:
		return seedream4ImageEdit(ctx, client, opts)
	case ModelFluxKontextPro:
		return fluxKontextEdit(ctx, client, opts)
	default:
		return nil, fmt.Errorf("image-to-image model %q is not supported", model)
	}
}

func qwenImageEdit(ctx context.Context, client Client, opts ImageToImageOptions) (interface{}, error) {
	if opts.Image == "" {
		return nil, fmt.Errorf("image is required")
	}

	input := map[string]interface{}{
		"prompt": opts.Prompt,
		"image":  opts.Image,
	}

	if opts.OutputQuality != nil {
		if *opts.OutputQuality < 0 || *opts.OutputQuality > 100 {
			return nil, fmt.Errorf("output_quality must be between 0 and 100")
		}
		input["output_quality"] = *opts.OutputQuality
	}
	if opts.OutputFormat != "" {
		switch opts.OutputFormat {
		case "webp", "jpg", "png":
			input["output_format"] = opts.OutputFormat
		default:
			return nil, fmt.Errorf("output_format must be webp, jpg or png")
		}
	}
	if opts.GoFast {
		input["go_fast"] = true
	}

	return client.Run(ctx, ModelQwenImageEdit, input)
}

func seedream4ImageEdit(ctx context.Context, client Client, opts ImageToImageOptions) (interface{}, error) {
	if len(opts.ImageInput) < 1 || len(opts.ImageInput) > 10 {
		return nil, fmt.Errorf("image_input must contain between 1 and 10 images")
	}

	input := map[string]interface{}{
		"prompt":      opts.Prompt,
		"image_input": opts.ImageInput,
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

	return client.Run(ctx, ModelSeedream4, input)
}

func fluxKontextEdit(ctx context.Context, client Client, opts ImageToImageOptions) (interface{}, error) {
	if opts.Image == "" {
		return nil, fmt.Errorf("input_image is required")
	}

	input := map[string]interface{}{
		"prompt":      opts.Prompt,
		"input_image": opts.Image,
	}

	if opts.AspectRatio != "" {
		switch opts.AspectRatio {
		case "match_input_image", "1:1", "16:9", "9:16", "4:3", "3:4":
			input["aspect_ratio"] = opts.AspectRatio
		default:
			return nil, fmt.Errorf("aspect_ratio must be one of match_input_image, 1:1, 16:9, 9:16, 4:3, 3:4")
		}
	}
	if opts.OutputFormat != "" {
		input["output_format"] = opts.OutputFormat
	}

	return client.Run(ctx, ModelFluxKontextPro, input)
}
