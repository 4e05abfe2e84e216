// Package validator collects business-rule violations instead of failing fast,
// so a caller can report every problem with a payload at once.
package validator

type Violation struct {
	Field   string
	Message string
}

type Validator struct {
	violations []Violation
}

func New() *Validator {
	return &Validator{}
}

// Check records the message under the field when ok is false.
// Violations keep the order in which checks ran.
func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		v.violations = append(v.violations, Violation{Field: field, Message: message})
	}
}

func (v *Validator) Valid() bool {
	return len(v.violations) == 0
}

func (v *Validator) Messages() []string {
	if len(v.violations) == 0 {
		return nil
	}

	res := make([]string, len(v.violations))
	for i, violation := range v.violations {
		res[i] = violation.Message
	}

	return res
}
