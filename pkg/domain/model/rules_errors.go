package model

import "errors"

// Sentinel errors for field validation
var (
	ErrValueRequired = errors.New("value is required")
	ErrTooShort      = errors.New("value is too short")
	ErrInvalidRUT    = errors.New("invalid RUT")
	ErrInvalidEmail  = errors.New("invalid email")
	ErrInvalidPhone  = errors.New("invalid phone")
	ErrUnknownRule   = errors.New("unknown rule")
	ErrRuleFailed    = errors.New("rule failed")
)

// Context keys for error values
const (
	RuleKindKey  = "rule_kind"
	RuleNameKey  = "rule_name"
	MinLengthKey = "min_length"
)
