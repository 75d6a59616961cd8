package aisdk

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/replicate/replicate-go"
)

// Client is the minimal surface the model adapters need from the inference
// provider: a buffered run and an incremental text stream.
type Client interface {
	Run(ctx context.Context, model string, input map[string]interface{}) (interface{}, error)
	Stream(ctx context.Context, model string, input map[string]interface{}) (<-chan string, <-chan error)
}

// ReplicateClient implements Client on top of the Replicate API.
type ReplicateClient struct {
	r8 *replicate.Client
}

// NewReplicateClient builds the inference client. A missing token is logged
// but does not block startup; calls made without it fail upstream.
func NewReplicateClient(token string) (*ReplicateClient, error) {
	if strings.TrimSpace(token) == "" {
		log.Warn("REPLICATE_API_TOKEN is not set; model invocations will fail")
	}

	r8, err := replicate.NewClient(replicate.WithToken(token))
	if err != nil {
		return nil, fmt.Errorf("failed to create replicate client: %w", err)
	}
	return &ReplicateClient{r8: r8}, nil
}

// Run executes a model synchronously and returns its raw output. The output
// shape is model-specific: a URL string, a list of URLs, or a byte stream.
func (c *ReplicateClient) Run(ctx context.Context, model string, input map[string]interface{}) (interface{}, error) {
	out, err := c.r8.Run(ctx, model, replicate.PredictionInput(input), nil)
	if err != nil {
		return nil, fmt.Errorf("model %s failed: %w", model, err)
	}
	return out, nil
}

// Stream executes a text model and forwards its server-sent output tokens.
// Cancelling ctx aborts the stream.
func (c *ReplicateClient) Stream(ctx context.Context, model string, input map[string]interface{}) (<-chan string, <-chan error) {
	outCh := make(chan string)
	errCh := make(chan error, 1)

	go func() {
		defer close(outCh)
		defer close(errCh)

		owner, name, ok := strings.Cut(model, "/")
		if !ok {
			errCh <- fmt.Errorf("invalid model identifier %q", model)
			return
		}

		pred, err := c.r8.CreatePredictionWithModel(ctx, owner, name, replicate.PredictionInput(input), nil, true)
		if err != nil {
			errCh <- fmt.Errorf("model %s failed: %w", model, err)
			return
		}

		sseCh, sseErrCh := c.r8.StreamPrediction(ctx, pred)
		for sseCh != nil || sseErrCh != nil {
			select {
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			case ev, open := <-sseCh:
				if !open {
					sseCh = nil
					continue
				}
				switch ev.Type {
				case "output":
					select {
					case outCh <- ev.Data:
					case <-ctx.Done():
						errCh <- ctx.Err()
						return
					}
				case "done":
					return
				}
			case err, open := <-sseErrCh:
				if !open {
					sseErrCh = nil
					continue
				}
				if err != nil {
					errCh <- err
					return
				}
			}
		}
	}()

	return outCh, errCh
}
