package utils

// RentalTotal computes the total price of a booking from the listing's
// price-per-day snapshot: pricePerDay * inclusive day count. Amounts are in
// the smallest currency unit.
func RentalTotal(pricePerDay int32, startStr, endStr string) (int32, error) {
	days, err := DaysInclusive(startStr, endStr)
	if err != nil {
		return 0, err
	}
	return pricePerDay * days, nil
}
