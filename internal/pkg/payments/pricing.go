package payments

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Price is the display amount for one product in one locale, in minor units.
type Price struct {
	Amount   int64
	Currency string
}

// Pricing holds the per-locale price tables loaded from disk. Amounts live
// here rather than on the product rows so localized price points can be
// adjusted without touching the catalog.
type Pricing struct {
	tables map[string]map[string]Price
}

type pricingFile struct {
	Currency string           `json:"currency"`
	Prices   map[string]int64 `json:"prices"`
}

// LoadPricing reads every <locale>.json file in dir into a price table.
func LoadPricing(dir string) (*Pricing, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no pricing tables found in %s", dir)
	}

	p := &Pricing{tables: make(map[string]map[string]Price)}
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read pricing table %s: %w", path, err)
		}

		var file pricingFile
		if err := json.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse pricing table %s: %w", path, err)
		}
		if file.Currency == "" {
			return nil, fmt.Errorf("pricing table %s has no currency", path)
		}

		locale := filepath.Base(path)
		locale = locale[:len(locale)-len(".json")]

		table := make(map[string]Price, len(file.Prices))
		for productID, amount := range file.Prices {
			if amount <= 0 {
				return nil, fmt.Errorf("pricing table %s: product %s has non-positive amount", path, productID)
			}
			table[productID] = Price{Amount: amount, Currency: file.Currency}
		}
		p.tables[locale] = table
	}

	if _, ok := p.tables["en"]; !ok {
		return nil, fmt.Errorf("pricing table for locale en is required")
	}
	return p, nil
}

// NewPricing builds a Pricing from in-memory tables.
func NewPricing(tables map[string]map[string]Price) *Pricing {
	return &Pricing{tables: tables}
}

// Resolve returns the price for a product in the given locale, falling back
// to the en table when the locale has no entry.
func (p *Pricing) Resolve(productID, locale string) (Price, error) {
	if table, ok := p.tables[locale]; ok {
		if price, ok := table[productID]; ok {
			return price, nil
		}
	}
	if locale != "en" {
		if price, ok := p.tables["en"][productID]; ok {
			return price, nil
		}
	}
	return Price{}, fmt.Errorf("no price for product %s", productID)
}
