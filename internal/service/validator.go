package service

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/samandr77/agencydesk/internal/entity"
)

const (
	EmailMaxLen    = 255
	FullNameMaxLen = 200
	PasswordMinLen = 8
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func ValidateEmail(email string) error {
	if len(email) > EmailMaxLen || !emailRegexp.MatchString(email) {
		return fmt.Errorf("%w: malformed email", entity.ErrInvalidArgument)
	}

	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < PasswordMinLen {
		return fmt.Errorf("%w: password shorter than %d characters", entity.ErrInvalidArgument, PasswordMinLen)
	}

	return nil
}

// ValidateClientFields guards the input boundary: a blank name, negative
// amounts and a zero monthly amount never reach the store. Zero monthly
// amount is rejected here so the payment classifier never divides by zero.
func ValidateClientFields(f entity.ClientFields) error {
	if strings.TrimSpace(f.FullName) == "" {
		return fmt.Errorf("%w: full name is required", entity.ErrInvalidArgument)
	}

	if utf8.RuneCountInString(f.FullName) > FullNameMaxLen {
		return fmt.Errorf("%w: full name longer than %d characters", entity.ErrInvalidArgument, FullNameMaxLen)
	}

	if !f.MonthlyAmount.IsPositive() {
		return fmt.Errorf("%w: monthly amount must be positive", entity.ErrInvalidArgument)
	}

	if f.PaidAmount.IsNegative() {
		return fmt.Errorf("%w: paid amount must not be negative", entity.ErrInvalidArgument)
	}

	if f.ServiceStartDate.IsZero() {
		return fmt.Errorf("%w: service start date is required", entity.ErrInvalidArgument)
	}

	if f.NextPaymentDue.IsZero() {
		return fmt.Errorf("%w: next payment due date is required", entity.ErrInvalidArgument)
	}

	return nil
}
