package errors

import "math"

// ValidateFinite rejects NaN and infinite values.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidDimension, "%s must be a finite number", field)
	}
	return nil
}

// ValidatePositive rejects values that are not finite and strictly positive.
func ValidatePositive(field string, v float64) error {
	if err := ValidateFinite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return New(ErrCodeInvalidDimension, "%s must be greater than 0 (got %.2f)", field, v)
	}
	return nil
}

// ValidateRange rejects values outside the half-open interval (lo, hi].
// The code is attached to the returned error so callers can tell which
// rule failed.
func ValidateRange(code Code, field string, v, lo, hi float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(code, "%s must be a finite number", field)
	}
	if v <= lo || v > hi {
		return New(code, "%s must be greater than %g and at most %g (got %.2f)", field, lo, hi, v)
	}
	return nil
}

// ValidateGreater rejects a value that does not exceed a reference value.
func ValidateGreater(field string, v float64, refField string, ref float64) error {
	if v <= ref {
		return New(ErrCodeInvalidDimension, "%s (%.2f) must be greater than %s (%.2f)", field, v, refField, ref)
	}
	return nil
}
