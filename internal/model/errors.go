package model

import (
	"errors"
	"strings"
)

var ErrNoRecord = errors.New("no record")
var ErrAlreadyExists = errors.New("entity already exists")
var ErrTargetNotFound = errors.New("target fish not found")
var ErrTargetRequired = errors.New("fish target requires a fish id")
var ErrAlreadyCompleted = errors.New("event already completed")

// ValidationError carries every violation found in a payload, in rule order.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}
