package errors

import "unicode"

// ValidateLeafName validates a leaf identifier (a content-producer name).
// It rejects names that would break serialization or marker tagging.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
func ValidateLeafName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidLayout, "leaf name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidLayout, "leaf name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidLayout, "leaf name contains invalid control characters")
		}
	}

	return nil
}

// ValidateRatios validates a pair of split ratios.
// Ratios are weights, not percentages; they only need to be positive.
func ValidateRatios(ratios [2]float64) error {
	if ratios[0] <= 0 || ratios[1] <= 0 {
		return New(ErrCodeInvalidRatios, "ratios must be positive, got (%v, %v)", ratios[0], ratios[1])
	}
	return nil
}

// ValidateFigSize validates overall figure dimensions.
func ValidateFigSize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidLayout, "figure size must be positive, got (%v, %v)", width, height)
	}
	return nil
}
