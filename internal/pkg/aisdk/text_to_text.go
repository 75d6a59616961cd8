package aisdk

import (
	"context"
	"fmt"
	"strings"
)

// TextToTextOptions carries the chat completion parameters shared by the
// language models.
type TextToTextOptions struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    *int
	Temperature  *float64
	TopP         *float64
}

// TextToText streams a chat completion from the requested language model.
// The returned channels follow the Client.Stream contract.
func TextToText(ctx context.Context, client Client, model string, opts TextToTextOptions) (<-chan string, <-chan error, error) {
	if strings.TrimSpace(opts.Prompt) == "" {
		return nil, nil, fmt.Errorf("prompt is required")
	}

	switch model {
	case ModelLlama3, ModelDeepseekV3, ModelClaudeSonnet:
	default:
		return nil, nil, fmt.Errorf("text-to-text model %q is not supported", model)
	}

	input := map[string]interface{}{
		"prompt": opts.Prompt,
	}

	if opts.SystemPrompt != "" {
		input["system_prompt"] = opts.SystemPrompt
	}
	if opts.MaxTokens != nil {
		if *opts.MaxTokens < 1 || *opts.MaxTokens > 8192 {
			return nil, nil, fmt.Errorf("max_tokens must be between 1 and 8192")
		}
		input["max_tokens"] = *opts.MaxTokens
	}
	if opts.Temperature != nil {
		if *opts.Temperature < 0 || *opts.Temperature > 2 {
			return nil, nil, fmt.Errorf("temperature must be between 0 and 2")
		}
		input["temperature"] = *opts.Temperature
	}
	if opts.TopP != nil {
		if *opts.TopP <= 0 || *opts.TopP > 1 {
			return nil, nil, fmt.Errorf("top_p must be in (0, 1]")
		}
		input["top_p"] = *opts.TopP
	}

	outCh, errCh := client.Stream(ctx, model, input)
	return outCh, errCh, nil
}
