package calculator

import "math"

// Payment returns the fixed periodic payment that amortizes principal down to
// futureValue over n periods at rate per period. The result is negative for a
// positive principal (an outflow).
func Payment(rate float64, n int, principal, futureValue float64) (float64, error) {
	if n <= 0 {
		return 0, invalid("number_of_payments", "must be positive")
	}
	// (1+rate)^n - 1 without cancellation for small rates.
	accrued := math.Expm1(float64(n) * math.Log1p(rate))
	if rate == 0 || accrued == 0 {
		return -(principal + futureValue) / float64(n), nil
	}
	p := -(rate * (principal*(1+accrued) + futureValue)) / accrued
	if !finite(p) {
		return 0, invalid("rate", "produces a non-finite payment")
	}
	return p, nil
}

// MonthlyMortgagePayment amortizes principal at an annual interest rate over termYears.
func MonthlyMortgagePayment(annualRate float64, termYears int, principal float64) (float64, error) {
	if termYears <= 0 {
		return 0, invalid("loan_term_years", "must be positive")
	}
	return Payment(annualRate/12, termYears*12, principal, 0)
}
