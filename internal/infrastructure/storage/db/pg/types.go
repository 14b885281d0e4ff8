package postgresdb

import (
	"context"
	"fmt"
	"strconv"
)

// Balances are stored as NUMERIC(20, 0) since postgres has no unsigned
// 64-bit integer. They travel as text to keep every uint64 exact.

func formatAmount(amount uint64) string {
	return strconv.FormatUint(amount, 10)
}

func parseAmount(s string) (uint64, error) {
	amount, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid stored amount %q: %w", s, err)
	}
	return amount, nil
}

func parseAmounts(dst []*uint64, src []string) error {
	for i, s := range src {
		amount, err := parseAmount(s)
		if err != nil {
			return err
		}
		*dst[i] = amount
	}
	return nil
}

type querierFn func(ctx context.Context) querier
