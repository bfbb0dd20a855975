package services

import "math"

// mulAmount returns price × qty for non-negative operands, reporting false
// when the product does not fit in an int64.
func mulAmount(price int64, qty int) (int64, bool) {
	if price == 0 || qty == 0 {
		return 0, true
	}
	if int64(qty) > math.MaxInt64/price {
		return 0, false
	}
	return price * int64(qty), true
}

// addAmount returns a + b for non-negative operands, reporting false on
// overflow.
func addAmount(a, b int64) (int64, bool) {
	if b > math.MaxInt64-a {
		return 0, false
	}
	return a + b, true
}

func amountTooLarge() *Error {
	return validationError("Total biaya terlalu besar")
}
