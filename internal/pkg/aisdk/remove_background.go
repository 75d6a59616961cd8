package aisdk

import (
	"context"
	"fmt"
)

// RemoveBackgroundOptions carries the background removal parameters.
type RemoveBackgroundOptions struct {
	Image     string
	Format    string
	Threshold *float64
}

// RemoveBackground strips the background from a source image.
func RemoveBackground(ctx context.Context, client Client, model string, opts RemoveBackgroundOptions) (interface{}, error) {
	if opts.Image == "" {
		return nil, fmt.Errorf("image is required")
	}
	if model != ModelBackgroundRemove {
		return nil, fmt.Errorf("remove-background model %q is not supported", model)
	}

	input := map[string]interface{}{
		"image": opts.Image,
	}

	if opts.Format != "" {
		switch opts.Format {
		case "png", "webp", "jpg":
			input["format"] = opts.Format
		default:
			return nil, fmt.Errorf("format must be png, webp or jpg")
		}
	}
	if opts.Threshold != nil {
		if *opts.Threshold < 0 || *opts.Threshold > 1 {
			return nil, fmt.Errorf("threshold must be between 0 and 1")
		}
		input["threshold"] = *opts.Threshold
	}

	return client.Run(ctx, ModelBackgroundRemove, input)
}
