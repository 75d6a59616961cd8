package aisdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Asset is a generation result reduced to raw bytes plus its content type,
// ready for upload to object storage.
type Asset struct {
	Bytes       []byte
	ContentType string
}

// Fetcher resolves a result URL into bytes and a content type.
type Fetcher func(ctx context.Context, url string) ([]byte, string, error)

// HTTPFetcher builds a Fetcher over the given HTTP client. A nil client
// falls back to a default with a generous timeout for large video assets.
func HTTPFetcher(client *http.Client) Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return func(ctx context.Context, url string) ([]byte, string, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, "", err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, "", fmt.Errorf("failed to fetch result: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("failed to fetch result: status %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read result body: %w", err)
		}

		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = http.DetectContentType(data)
		}
		return data, contentType, nil
	}
}

// Materialize normalizes a raw model output into a single Asset. Lists are
// reduced to their first element, streams are buffered in full before a
// single pass, URL strings are fetched, and any other string is treated as
// inline binary data.
func Materialize(ctx context.Context, output interface{}, fetch Fetcher) (*Asset, error) {
	switch v := output.(type) {
	case nil:
		return nil, errors.New("model returned an empty result")
	case []interface{}:
		if len(v) == 0 {
			return nil, errors.New("model returned an empty result list")
		}
		return Materialize(ctx, v[0], fetch)
	case []string:
		if len(v) == 0 {
			return nil, errors.New("model returned an empty result list")
		}
		return Materialize(ctx, v[0], fetch)
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, fmt.Errorf("failed to buffer result stream: %w", err)
		}
		if len(data) == 0 {
			return nil, errors.New("model returned an empty result stream")
		}
		return &Asset{Bytes: data, ContentType: http.DetectContentType(data)}, nil
	case string:
		if isHTTPURL(v) {
			data, contentType, err := fetch(ctx, v)
			if err != nil {
				return nil, err
			}
			return &Asset{Bytes: data, ContentType: contentType}, nil
		}
		return &Asset{Bytes: []byte(v), ContentType: http.DetectContentType([]byte(v))}, nil
	default:
		return nil, fmt.Errorf("unexpected result format %T", output)
	}
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
