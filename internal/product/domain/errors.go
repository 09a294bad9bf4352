package domain

import (
	"errors"
	"strings"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("you have already reviewed this product")
	ErrCartNotFound    = errors.New("cart not found")
	ErrInvalidInput    = errors.New("invalid input")
)

// ValidationError carries one human readable message per failed rule
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "\n")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
