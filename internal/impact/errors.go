package impact

import "fmt"

// ContractViolationError reports an input or parameter outside its documented
// domain. It is the only error class this package produces; callers that
// honor the domain constraints never see it.
type ContractViolationError struct {
	Field  string
	Reason string
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("contract violation: %s %s", e.Field, e.Reason)
}

func violation(field, reason string) error {
	return &ContractViolationError{Field: field, Reason: reason}
}
