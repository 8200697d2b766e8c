package services

import "github.com/shopspring/decimal"

// Largest amounts the decimal(10,2) price and decimal(12,2) total columns hold.
var (
	MaxPrice = decimal.RequireFromString("99999999.99")
	MaxTotal = decimal.RequireFromString("9999999999.99")
)

// checkAmount rejects amounts the money columns would round or overflow.
func checkAmount(field string, amount, limit decimal.Decimal) error {
	switch {
	case amount.IsNegative():
		return invalid("%s must not be negative", field)
	case !amount.Equal(amount.Round(2)):
		return invalid("%s must have at most 2 decimal places", field)
	case amount.GreaterThan(limit):
		return invalid("%s must not exceed %s", field, limit.StringFixed(2))
	}
	return nil
}
