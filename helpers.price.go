package main

import "fmt"

// FormatPrice derives the display string served as `formatted_price`.
// It is a pure function of the incoming price: the same numeric input
// always yields the same output. Negative prices are formatted as-is
// since no sign rule applies at validation time.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}
