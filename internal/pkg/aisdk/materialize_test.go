package aisdk

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fetcherReturning(data []byte, contentType string) (Fetcher, *[]string) {
	var urls []string
	return func(_ context.Context, url string) ([]byte, string, error) {
		urls = append(urls, url)
		return data, contentType, nil
	}, &urls
}

func TestMaterializeURLString(t *testing.T) {
	t.Parallel()

	fetch, urls := fetcherReturning([]byte("png-bytes"), "image/png")
	asset, err := Materialize(context.Background(), "https://cdn.example.com/out.png", fetch)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), asset.Bytes)
	assert.Equal(t, "image/png", asset.ContentType)
	assert.Equal(t, []string{"https://cdn.example.com/out.png"}, *urls)
}

func TestMaterializeListTakesFirstElement(t *testing.T) {
	t.Parallel()

	fetch, urls := fetcherReturning([]byte("first"), "image/png")
	out := []interface{}{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png"}

	asset, err := Materialize(context.Background(), out, fetch)
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), asset.Bytes)
	assert.Equal(t, []string{"https://cdn.example.com/a.png"}, *urls, "only the first element is fetched")
}

func TestMaterializeEmptyList(t *testing.T) {
	t.Parallel()

	_, err := Materialize(context.Background(), []interface{}{}, nil)
	assert.ErrorContains(t, err, "empty result")
}

func TestMaterializeStreamBuffersOnce(t *testing.T) {
	t.Parallel()

	payload := append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0xab}, 64)...)
	reader := bytes.NewReader(payload)

	asset, err := Materialize(context.Background(), reader, nil)
	require.NoError(t, err)
	assert.Equal(t, payload, asset.Bytes)
	assert.Equal(t, "image/png", asset.ContentType)
	assert.Zero(t, reader.Len(), "stream must be fully consumed")
}

func TestMaterializeNonURLStringIsRawData(t *testing.T) {
	t.Parallel()

	fetch := func(_ context.Context, _ string) ([]byte, string, error) {
		t.Fatal("fetcher must not be called for inline data")
		return nil, "", nil
	}

	asset, err := Materialize(context.Background(), "inline payload", fetch)
	require.NoError(t, err)
	assert.Equal(t, []byte("inline payload"), asset.Bytes)
}

func TestMaterializeUnexpectedFormat(t *testing.T) {
	t.Parallel()

	_, err := Materialize(context.Background(), 42, nil)
	assert.ErrorContains(t, err, "unexpected result format")
}

func TestMaterializeNilOutput(t *testing.T) {
	t.Parallel()

	_, err := Materialize(context.Background(), nil, nil)
	assert.Error(t, err)
}
