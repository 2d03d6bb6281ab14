package booking

import (
	"arenabook/internal/schedule"

	"github.com/shopspring/decimal"
)

const secondsPerHour = 3600

// ComputePrice charges rate per hour for the length of iv, rounded half up
// to two decimal places.
func ComputePrice(rate decimal.Decimal, iv schedule.Interval) decimal.Decimal {
	seconds := decimal.NewFromInt(int64(iv.End - iv.Start))
	return rate.Mul(seconds).Div(decimal.NewFromInt(secondsPerHour)).Round(2)
}
