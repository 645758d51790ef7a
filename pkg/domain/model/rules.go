package model

import (
	"regexp"
	"strings"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// RuleKind identifies a field validation rule. Built-in kinds are
// dispatched by a switch; RuleKindCustom looks up a registered
// predicate by name.
type RuleKind string

const (
	RuleKindRequired  RuleKind = "required"
	RuleKindMinLength RuleKind = "min-length"
	RuleKindRUT       RuleKind = "rut"
	RuleKindEmail     RuleKind = "email"
	RuleKindPhone     RuleKind = "phone"
	RuleKindCustom    RuleKind = "custom"
)

// Rule is one validation rule applied to a field value
type Rule struct {
	Kind RuleKind
	Min  int    // minimum length for RuleKindMinLength
	Name string // predicate name for RuleKindCustom
}

// Required matches any non-blank value
func Required() Rule { return Rule{Kind: RuleKindRequired} }

// MinLength requires at least min characters after trimming
func MinLength(min int) Rule { return Rule{Kind: RuleKindMinLength, Min: min} }

// RUT matches a Chilean identity number such as "12.345.678-9"
func RUT() Rule { return Rule{Kind: RuleKindRUT} }

// Email matches a plausible email address
func Email() Rule { return Rule{Kind: RuleKindEmail} }

// Phone matches a phone number of 8 to 12 digits, ignoring separators
func Phone() Rule { return Rule{Kind: RuleKindPhone} }

// Custom references a predicate registered under name
func Custom(name string) Rule { return Rule{Kind: RuleKindCustom, Name: name} }

var (
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern    = regexp.MustCompile(`^[0-9]{8,12}$`)
	rutDashed       = regexp.MustCompile(`^[0-9]+-[0-9kK]$`)
	rutCompact      = regexp.MustCompile(`^[0-9]{7,8}[0-9kK]$`)
	rutSeparators   = strings.NewReplacer(".", "", "-", "")
	phoneSeparators = strings.NewReplacer(" ", "", "+", "", "-", "")
)

// Predicate is a custom validation function for RuleKindCustom rules
type Predicate func(value string) bool

// Registry holds named custom predicates. The zero value is usable.
type Registry struct {
	mu    sync.RWMutex
	preds map[string]Predicate
}

// NewRegistry creates an empty predicate registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a named predicate. Registering the same name twice is
// an error so rule sets cannot silently change behavior.
func (reg *Registry) Register(name string, pred Predicate) error {
	if name == "" {
		return goerr.Wrap(ErrUnknownRule, "predicate name is required")
	}
	if pred == nil {
		return goerr.Wrap(ErrUnknownRule, "predicate function is required", goerr.V(RuleNameKey, name))
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if reg.preds == nil {
		reg.preds = make(map[string]Predicate)
	}
	if _, exists := reg.preds[name]; exists {
		return goerr.New("predicate already registered", goerr.V(RuleNameKey, name))
	}
	reg.preds[name] = pred
	return nil
}

func (reg *Registry) lookup(name string) (Predicate, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	pred, ok := reg.preds[name]
	return pred, ok
}

// Validate checks value against each rule in order and returns the
// first failure. A nil registry is fine as long as no custom rule is
// used.
func (reg *Registry) Validate(value string, rules []Rule) error {
	for _, rule := range rules {
		if err := reg.validateRule(value, rule); err != nil {
			return err
		}
	}
	return nil
}

func (reg *Registry) validateRule(value string, rule Rule) error {
	switch rule.Kind {
	case RuleKindRequired:
		if strings.TrimSpace(value) == "" {
			return goerr.Wrap(ErrValueRequired, "value is required")
		}
		return nil

	case RuleKindMinLength:
		if len(strings.TrimSpace(value)) < rule.Min {
			return goerr.Wrap(ErrTooShort, "value is too short",
				goerr.V(MinLengthKey, rule.Min))
		}
		return nil

	case RuleKindRUT:
		if !isRUT(value) {
			return goerr.Wrap(ErrInvalidRUT, "invalid RUT format")
		}
		return nil

	case RuleKindEmail:
		if !emailPattern.MatchString(value) {
			return goerr.Wrap(ErrInvalidEmail, "invalid email address")
		}
		return nil

	case RuleKindPhone:
		if !phonePattern.MatchString(phoneSeparators.Replace(value)) {
			return goerr.Wrap(ErrInvalidPhone, "invalid phone number")
		}
		return nil

	case RuleKindCustom:
		if reg == nil {
			return goerr.Wrap(ErrUnknownRule, "no registry for custom rule",
				goerr.V(RuleNameKey, rule.Name))
		}
		pred, ok := reg.lookup(rule.Name)
		if !ok {
			return goerr.Wrap(ErrUnknownRule, "custom rule not registered",
				goerr.V(RuleNameKey, rule.Name))
		}
		if !pred(value) {
			return goerr.Wrap(ErrRuleFailed, "custom rule failed",
				goerr.V(RuleNameKey, rule.Name))
		}
		return nil

	default:
		return goerr.Wrap(ErrUnknownRule, "unsupported rule kind",
			goerr.V(RuleKindKey, string(rule.Kind)))
	}
}

// isRUT accepts "12.345.678-9", "12345678-9" and compact "123456789"
// forms. Only the shape is checked; the check digit is not verified.
func isRUT(value string) bool {
	compact := rutSeparators.Replace(value)
	if len(compact) < 8 || len(compact) > 9 {
		return false
	}
	return rutDashed.MatchString(value) || rutCompact.MatchString(compact)
}
