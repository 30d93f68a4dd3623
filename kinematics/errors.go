package kinematics

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConfigurationMismatch matches every ConfigurationError with errors.Is.
	ErrConfigurationMismatch = errors.New("swerve configuration mismatch")
	// ErrNumericDomain matches every NumericDomainError with errors.Is.
	ErrNumericDomain = errors.New("non-finite numeric input")
)

// ConfigurationError is returned when the module geometry is unusable or when the number of
// module states passed in does not match the configured number of modules.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfigurationMismatch, e.Reason)
}

// Is makes errors.Is(err, ErrConfigurationMismatch) hold.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfigurationMismatch
}

// NumericDomainError is returned when an input velocity, angle or position is NaN or infinite.
type NumericDomainError struct {
	Field string
	Value float64
}

func (e *NumericDomainError) Error() string {
	return fmt.Sprintf("%s: %s is %v", ErrNumericDomain, e.Field, e.Value)
}

// Is makes errors.Is(err, ErrNumericDomain) hold.
func (e *NumericDomainError) Is(target error) bool {
	return target == ErrNumericDomain
}

// NewTooFewModulesError is returned when a drive is built with fewer than two modules.
func NewTooFewModulesError(count int) error {
	return &ConfigurationError{Reason: fmt.Sprintf("a swerve drive requires at least %d modules, got %d", minModules, count)}
}

// NewModuleCountMismatchError is returned when the number of states differs from the number
// of configured modules.
func NewModuleCountMismatchError(expected, actual int) error {
	return &ConfigurationError{Reason: fmt.Sprintf("expected %d module states, got %d", expected, actual)}
}

func newNonFiniteError(field string, value float64) error {
	return &NumericDomainError{Field: field, Value: value}
}
