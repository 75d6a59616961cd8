package payments

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePricingFile(t *testing.T, dir, locale, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, locale+".json"), []byte(content), 0o644))
}

func TestLoadPricing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePricingFile(t, dir, "en", `{"currency":"usd","prices":{"pack-500":499,"pro-plan":1999}}`)
	writePricingFile(t, dir, "zh", `{"currency":"cny","prices":{"pack-500":3500}}`)

	pricing, err := LoadPricing(dir)
	require.NoError(t, err)

	price, err := pricing.Resolve("pack-500", "en")
	require.NoError(t, err)
	assert.Equal(t, Price{Amount: 499, Currency: "usd"}, price)

	price, err = pricing.Resolve("pack-500", "zh")
	require.NoError(t, err)
	assert.Equal(t, Price{Amount: 3500, Currency: "cny"}, price)
}

func TestResolveFallsBackToEnglish(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePricingFile(t, dir, "en", `{"currency":"usd","prices":{"pro-plan":1999}}`)
	writePricingFile(t, dir, "zh", `{"currency":"cny","prices":{"pack-500":3500}}`)

	pricing, err := LoadPricing(dir)
	require.NoError(t, err)

	price, err := pricing.Resolve("pro-plan", "zh")
	require.NoError(t, err)
	assert.Equal(t, "usd", price.Currency)

	_, err = pricing.Resolve("unknown", "zh")
	assert.Error(t, err)
}

func TestLoadPricingRejectsBadTables(t *testing.T) {
	t.Parallel()

	t.Run("missing english table", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writePricingFile(t, dir, "zh", `{"currency":"cny","prices":{"pack-500":3500}}`)
		_, err := LoadPricing(dir)
		assert.ErrorContains(t, err, "locale en")
	})

	t.Run("non-positive amount", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writePricingFile(t, dir, "en", `{"currency":"usd","prices":{"pack-500":0}}`)
		_, err := LoadPricing(dir)
		assert.ErrorContains(t, err, "non-positive amount")
	})

	t.Run("missing currency", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writePricingFile(t, dir, "en", `{"prices":{"pack-500":499}}`)
		_, err := LoadPricing(dir)
		assert.ErrorContains(t, err, "currency")
	})

	t.Run("empty directory", func(t *testing.T) {
		t.Parallel()
		_, err := LoadPricing(t.TempDir())
		assert.Error(t, err)
	})
}
