package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wickhaven/storefront-backend/pkg/woocommerce"
)

// Defaults applied when the remote record omits candle-specific fields.
const (
	defaultScentNotes  = "amber, cedar, vanilla"
	defaultWeightGrams = 220
	// burnRateGramsPerHour drives the burn-time estimate for records that
	// don't declare one.
	burnRateGramsPerHour = 4.5
)

// MapProduct normalizes a remote product record into the local model.
// Missing fields take the documented defaults; malformed money fields map to
// zero rather than failing the whole sync.
func MapProduct(remote woocommerce.Product) Product {
	price := parseCents(remote.Price)

	var regular *int64
	if cents := parseCents(remote.RegularPrice); cents > price && price > 0 {
		regular = &cents
	}

	stock := StockStatus(strings.TrimSpace(remote.StockStatus))
	if !stock.IsValid() {
		stock = StockInStock
	}

	collection := ""
	if len(remote.Categories) > 0 {
		collection = remote.Categories[0].Name
	}

	tags := make([]string, 0, len(remote.Tags))
	bestseller := false
	for _, tag := range remote.Tags {
		tags = append(tags, tag.Name)
		if strings.EqualFold(tag.Slug, "bestseller") {
			bestseller = true
		}
	}

	images := make([]string, 0, len(remote.Images))
	for _, img := range remote.Images {
		if strings.TrimSpace(img.Src) != "" {
			images = append(images, img.Src)
		}
	}

	weight := parseWeightGrams(remote.Weight)
	scentNotes := metaString(remote.MetaData, "scent_notes")
	if scentNotes == "" {
		scentNotes = defaultScentNotes
	}

	burnTime := metaInt(remote.MetaData, "burn_time_hours")
	if burnTime <= 0 {
		burnTime = estimateBurnTimeHours(weight)
	}

	return Product{
		ID:                remote.ID,
		Slug:              remote.Slug,
		Name:              remote.Name,
		Tagline:           stripTags(remote.ShortDescription),
		Description:       stripTags(remote.Description),
		PriceCents:        price,
		RegularPriceCents: regular,
		StockStatus:       stock,
		Collection:        collection,
		Tags:              tags,
		Images:            images,
		Featured:          remote.Featured,
		Bestseller:        bestseller,
		OnSale:            remote.OnSale || regular != nil,
		ScentNotes:        scentNotes,
		WeightGrams:       weight,
		BurnTimeHours:     burnTime,
	}
}

// estimateBurnTimeHours derives a burn time from the candle weight, rounded
// to the nearest 5 hours.
func estimateBurnTimeHours(weightGrams int) int {
	raw := float64(weightGrams) / burnRateGramsPerHour
	rounded := int(math.Round(raw/5) * 5)
	if rounded < 5 {
		rounded = 5
	}
	return rounded
}

func parseCents(amount string) int64 {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return 0
	}
	dec, err := decimal.NewFromString(amount)
	if err != nil || dec.IsNegative() {
		return 0
	}
	return dec.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func parseWeightGrams(weight string) int {
	weight = strings.TrimSpace(weight)
	if weight == "" {
		return defaultWeightGrams
	}
	dec, err := decimal.NewFromString(weight)
	if err != nil || !dec.IsPositive() {
		return defaultWeightGrams
	}
	return int(dec.Round(0).IntPart())
}

func metaString(entries []woocommerce.MetaEntry, key string) string {
	for _, entry := range entries {
		if entry.Key != key {
			continue
		}
		if s, ok := entry.Value.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func metaInt(entries []woocommerce.MetaEntry, key string) int {
	for _, entry := range entries {
		if entry.Key != key {
			continue
		}
		switch v := entry.Value.(type) {
		case float64:
			return int(v)
		case string:
			var parsed int
			if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &parsed); err == nil {
				return parsed
			}
		}
	}
	return 0
}

// stripTags removes the HTML the commerce API wraps around description fields.
func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
