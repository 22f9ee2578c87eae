package promo

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	pkgerrors "github.com/wickhaven/storefront-backend/pkg/errors"
)

// LocalSource serves a static coupon table. It backs the evaluator whenever
// no remote commerce backend is configured.
type LocalSource struct {
	records map[string]Record
}

// NewLocalSource builds the default storefront coupon table.
func NewLocalSource() *LocalSource {
	ember20Expiry := time.Date(2027, time.January, 31, 23, 59, 59, 0, time.UTC)

	records := []Record{
		{
			Code:   "WELCOME10",
			Type:   TypePercent,
			Value:  decimal.NewFromInt(10),
			Active: true,
		},
		{
			Code:          "FLAT100",
			Type:          TypeFixed,
			Value:         decimal.NewFromInt(100),
			Active:        true,
			MinOrderCents: 1000,
		},
		{
			Code:          "EMBER20",
			Type:          TypePercent,
			Value:         decimal.NewFromInt(20),
			Active:        true,
			MinOrderCents: 2500,
			ExpiresAt:     &ember20Expiry,
		},
	}

	byCode := make(map[string]Record, len(records))
	for _, record := range records {
		byCode[strings.ToUpper(record.Code)] = record
	}
	return &LocalSource{records: byCode}
}

// FindCoupon looks the code up in the static table.
func (s *LocalSource) FindCoupon(_ context.Context, code string) (*Record, error) {
	record, ok := s.records[strings.ToUpper(code)]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
	}
	return &record, nil
}
