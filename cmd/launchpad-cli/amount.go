package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// formatAmount renders base units with the given number of decimals.
func formatAmount(units uint64, decimals uint8) string {
	if decimals == 0 {
		return strconv.FormatUint(units, 10)
	}
	scale := pow10(decimals)
	return fmt.Sprintf("%d.%0*d", units/scale, int(decimals), units%scale)
}

// parseAmount converts a decimal string to base units.
func parseAmount(s string, decimals uint8) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("negative amount")
	}

	parts := strings.SplitN(s, ".", 2)

	whole, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid whole part: %w", err)
	}

	var frac uint64
	if len(parts) == 2 {
		fracStr := parts[1]
		if len(fracStr) > int(decimals) {
			return 0, fmt.Errorf("too many decimal places (max %d)", decimals)
		}
		fracStr = fracStr + strings.Repeat("0", int(decimals)-len(fracStr))
		if fracStr != "" {
			frac, err = strconv.ParseUint(fracStr, 10, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid fractional part: %w", err)
			}
		}
	}

	scale := pow10(decimals)
	if whole > math.MaxUint64/scale {
		return 0, fmt.Errorf("amount too large")
	}
	result := whole * scale
	if result > math.MaxUint64-frac {
		return 0, fmt.Errorf("amount too large")
	}
	return result + frac, nil
}

func pow10(n uint8) uint64 {
	p := uint64(1)
	for i := uint8(0); i < n; i++ {
		p *= 10
	}
	return p
}
