package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetObjectKey(t *testing.T) {
	c := &Config{}

	key := c.GetObjectKey("0b5cbd32-1e2f-4a0b-9d2e-1a2b3c4d5e6f", ".png", 2026, 3)

	assert.Equal(t, "generations/2026/03/0b5cbd32-1e2f-4a0b-9d2e-1a2b3c4d5e6f.png", key)
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{
			name:   "public base url wins",
			config: Config{PublicBaseURL: "https://cdn.example.com/", EndpointURL: "https://s3.local", BucketName: "assets"},
			want:   "https://cdn.example.com/generations/2026/03/a.png",
		},
		{
			name:   "endpoint path style",
			config: Config{EndpointURL: "https://s3.local", BucketName: "assets"},
			want:   "https://s3.local/assets/generations/2026/03/a.png",
		},
		{
			name:   "aws virtual hosted",
			config: Config{BucketName: "assets", Region: "eu-central-1"},
			want:   "https://assets.s3.eu-central-1.amazonaws.com/generations/2026/03/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.PublicURL("generations/2026/03/a.png"))
		})
	}
}
