package domain

import (
	"fmt"
	"regexp"
)

var (
	emailRegex        = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	activityTypeRegex = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)
)

// ValidateEmail checks if an email address is valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateActivityType checks the snake_case activity type key.
func ValidateActivityType(activityType string) error {
	if !activityTypeRegex.MatchString(activityType) {
		return fmt.Errorf("invalid activity type: %q", activityType)
	}
	return nil
}

// ValidatePositiveAmount checks that a point amount is positive.
func ValidatePositiveAmount(amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive, got %d", amount)
	}
	return nil
}
