package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed data/seed.json
var seedData []byte

// SeedProducts decodes the catalog shipped with the binary.
func SeedProducts() ([]Product, error) {
	var products []Product
	if err := json.Unmarshal(seedData, &products); err != nil {
		return nil, fmt.Errorf("decoding seed catalog: %w", err)
	}
	for _, p := range products {
		if p.RegularPriceCents != nil && *p.RegularPriceCents <= p.PriceCents {
			return nil, fmt.Errorf("seed product %d: regular price must exceed price", p.ID)
		}
		if len(p.Images) == 0 {
			return nil, fmt.Errorf("seed product %d: at least one image is required", p.ID)
		}
		if !p.StockStatus.IsValid() {
			return nil, fmt.Errorf("seed product %d: invalid stock status %q", p.ID, p.StockStatus)
		}
	}
	return products, nil
}
