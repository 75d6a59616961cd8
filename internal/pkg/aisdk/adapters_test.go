package aisdk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type runCall struct {
	model string
	input map[string]interface{}
}

type fakeClient struct {
	runs   []runCall
	result interface{}
	err    error
}

func (f *fakeClient) Run(_ context.Context, model string, input map[string]interface{}) (interface{}, error) {
	f.runs = append(f.runs, runCall{model: model, input: input})
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeClient) Stream(_ context.Context, model string, input map[string]interface{}) (<-chan string, <-chan error) {
	f.runs = append(f.runs, runCall{model: model, input: input})
	outCh := make(chan string, 2)
	errCh := make(chan error, 1)
	outCh <- "hello"
	outCh <- " world"
	close(outCh)
	close(errCh)
	return outCh, errCh
}

func TestTextToImageSeedreamDimensions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		width   *int
		height  *int
		wantErr bool
	}{
		{name: "lower bound", width: Int(1024), height: Int(1024), wantErr: false},
		{name: "upper bound", width: Int(2048), height: Int(2048), wantErr: false},
		{name: "width below range", width: Int(1023), wantErr: true},
		{name: "width above range", width: Int(2049), wantErr: true},
		{name: "height below range", height: Int(512), wantErr: true},
		{name: "unset dimensions", wantErr: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &fakeClient{result: "https://cdn.example.com/out.png"}
			_, err := TextToImage(context.Background(), client, ModelSeedream4, TextToImageOptions{
				Prompt: "a lighthouse at dusk",
				Width:  tt.width,
				Height: tt.height,
			})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, client.runs, "invalid input must not reach the provider")
			} else {
				assert.NoError(t, err)
				require.Len(t, client.runs, 1)
				assert.Equal(t, ModelSeedream4, client.runs[0].model)
			}
		})
	}
}

func TestTextToImageSeedreamMaxImages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		maxImages int
		wantErr   bool
	}{
		{name: "minimum", maxImages: 1, wantErr: false},
		{name: "maximum", maxImages: 15, wantErr: false},
		{name: "zero", maxImages: 0, wantErr: true},
		{name: "above maximum", maxImages: 16, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &fakeClient{result: "https://cdn.example.com/out.png"}
			_, err := TextToImage(context.Background(), client, ModelSeedream4, TextToImageOptions{
				Prompt:    "a lighthouse at dusk",
				MaxImages: Int(tt.maxImages),
			})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				require.Len(t, client.runs, 1)
				assert.Equal(t, tt.maxImages, client.runs[0].input["max_images"])
			}
		})
	}
}

func TestTextToImageRequiresPrompt(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	_, err := TextToImage(context.Background(), client, ModelSeedream4, TextToImageOptions{Prompt: "   "})
	assert.ErrorContains(t, err, "prompt is required")
	assert.Empty(t, client.runs)
}

func TestTextToImageUnsupportedModel(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	_, err := TextToImage(context.Background(), client, "acme/unknown-model", TextToImageOptions{Prompt: "x"})
	assert.ErrorContains(t, err, "not supported")
}

func TestFluxProOutputQualityBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		quality int
		wantErr bool
	}{
		{name: "zero is valid", quality: 0, wantErr: false},
		{name: "hundred is valid", quality: 100, wantErr: false},
		{name: "negative", quality: -1, wantErr: true},
		{name: "above hundred", quality: 101, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &fakeClient{result: "https://cdn.example.com/out.png"}
			_, err := TextToImage(context.Background(), client, ModelFluxPro, TextToImageOptions{
				Prompt:        "a lighthouse at dusk",
				OutputQuality: Int(tt.quality),
			})

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				require.Len(t, client.runs, 1)
				assert.Equal(t, tt.quality, client.runs[0].input["output_quality"])
			}
		})
	}
}

func TestQwenImageEditOutputQuality(t *testing.T) {
	t.Parallel()

	client := &fakeClient{result: "https://cdn.example.com/out.webp"}
	_, err := ImageToImage(context.Background(), client, ModelQwenImageEdit, ImageToImageOptions{
		Prompt:        "remove the watermark",
		Image:         "https://cdn.example.com/in.png",
		OutputQuality: Int(0),
	})
	require.NoError(t, err)
	require.Len(t, client.runs, 1)
	assert.Equal(t, 0, client.runs[0].input["output_quality"])

	_, err = ImageToImage(context.Background(), client, ModelQwenImageEdit, ImageToImageOptions{
		Prompt:        "remove the watermark",
		Image:         "https://cdn.example.com/in.png",
		OutputQuality: Int(101),
	})
	assert.ErrorContains(t, err, "output_quality")
}

func TestSeedreamEditImageInputCount(t *testing.T) {
	t.Parallel()

	makeImages := func(n int) []string {
		imgs := make([]string, n)
		for i := range imgs {
			imgs[i] = "https://cdn.example.com/in.png"
		}
		return imgs
	}

	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{name: "single image", count: 1, wantErr: false},
		{name: "ten images", count: 10, wantErr: false},
		{name: "no images", count: 0, wantErr: true},
		{name: "eleven images", count: 11, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &fakeClient{result: "https://cdn.example.com/out.png"}
			_, err := ImageToImage(context.Background(), client, ModelSeedream4, ImageToImageOptions{
				Prompt:     "combine the references",
				ImageInput: makeImages(tt.count),
			})

			if tt.wantErr {
				assert.ErrorContains(t, err, "image_input")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKlingDurationEnum(t *testing.T) {
	t.Parallel()

	client := &fakeClient{result: "https://cdn.example.com/out.mp4"}

	for _, d := range []int{5, 10} {
		_, err := ImageToVideo(context.Background(), client, ModelKlingV21, ImageToVideoOptions{
			Image:    "https://cdn.example.com/frame.png",
			Duration: Int(d),
		})
		assert.NoError(t, err)
	}

	_, err := ImageToVideo(context.Background(), client, ModelKlingV21, ImageToVideoOptions{
		Image:    "https://cdn.example.com/frame.png",
		Duration: Int(7),
	})
	assert.ErrorContains(t, err, "duration")
}

func TestImageToVideoRequiresImage(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	_, err := ImageToVideo(context.Background(), client, ModelKlingV21, ImageToVideoOptions{Prompt: "pan left"})
	assert.ErrorContains(t, err, "image is required")
	assert.Empty(t, client.runs)
}

func TestTextToTextStreamsOutput(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	outCh, errCh, err := TextToText(context.Background(), client, ModelLlama3, TextToTextOptions{
		Prompt:      "say hello",
		MaxTokens:   Int(256),
		Temperature: Float64(0.7),
	})
	require.NoError(t, err)

	var got string
	for chunk := range outCh {
		got += chunk
	}
	assert.Equal(t, "hello world", got)
	assert.NoError(t, <-errCh)

	require.Len(t, client.runs, 1)
	assert.Equal(t, 256, client.runs[0].input["max_tokens"])
}

func TestTextToTextParameterBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts TextToTextOptions
	}{
		{name: "max_tokens zero", opts: TextToTextOptions{Prompt: "x", MaxTokens: Int(0)}},
		{name: "max_tokens too large", opts: TextToTextOptions{Prompt: "x", MaxTokens: Int(8193)}},
		{name: "temperature negative", opts: TextToTextOptions{Prompt: "x", Temperature: Float64(-0.1)}},
		{name: "temperature too high", opts: TextToTextOptions{Prompt: "x", Temperature: Float64(2.5)}},
		{name: "top_p zero", opts: TextToTextOptions{Prompt: "x", TopP: Float64(0)}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &fakeClient{}
			_, _, err := TextToText(context.Background(), client, ModelDeepseekV3, tt.opts)
			assert.Error(t, err)
			assert.Empty(t, client.runs)
		})
	}
}

func TestRemoveBackgroundValidation(t *testing.T) {
	t.Parallel()

	client := &fakeClient{result: "https://cdn.example.com/out.png"}

	_, err := RemoveBackground(context.Background(), client, ModelBackgroundRemove, RemoveBackgroundOptions{})
	assert.ErrorContains(t, err, "image is required")

	_, err = RemoveBackground(context.Background(), client, ModelBackgroundRemove, RemoveBackgroundOptions{
		Image:     "https://cdn.example.com/in.png",
		Format:    "png",
		Threshold: Float64(0.5),
	})
	assert.NoError(t, err)

	_, err = RemoveBackground(context.Background(), client, ModelBackgroundRemove, RemoveBackgroundOptions{
		Image:     "https://cdn.example.com/in.png",
		Threshold: Float64(1.5),
	})
	assert.ErrorContains(t, err, "threshold")
}
