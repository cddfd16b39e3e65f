package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var durationPattern = regexp.MustCompile(`^(\d+)\s*(day|week|month)s?$`)

var (
	daysPerWeek  = decimal.NewFromInt(7)
	weeksInMonth = decimal.RequireFromString("4.33")
)

// durationDays converts "N day|week|month[s]" into days. A month counts
// 7 x 4.33 days.
func durationDays(duration string) (decimal.Decimal, error) {
	m := durationPattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(duration)))
	if m == nil {
		return decimal.Zero, ErrInvalidDurationFormat
	}

	quantity, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return decimal.Zero, ErrInvalidDurationFormat
	}
	q := decimal.NewFromInt(quantity)

	switch m[2] {
	case "day":
		return q, nil
	case "week":
		return q.Mul(daysPerWeek), nil
	case "month":
		return q.Mul(daysPerWeek).Mul(weeksInMonth), nil
	}

	return decimal.Zero, ErrInvalidDurationUnit
}

// ComputeTotalPay is the amount owed for a job: quantity x workingHours x
// days-per-unit x hourlyRate. Contract text and provider prices both use it.
func ComputeTotalPay(duration string, workingHours int, hourlyRate decimal.Decimal) (decimal.Decimal, error) {
	days, err := durationDays(duration)
	if err != nil {
		return decimal.Zero, err
	}

	return days.Mul(decimal.NewFromInt(int64(workingHours))).Mul(hourlyRate), nil
}

// minorUnits converts an amount to the provider's integer minor units.
func minorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
