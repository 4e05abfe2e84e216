package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatorCollectsInOrder(t *testing.T) {
	v := New()
	v.Check(true, "title", "title must be provided")
	v.Check(false, "scheduled_at", "scheduled at must be provided")
	v.Check(false, "priority", "unknown priority")

	assert.False(t, v.Valid())
	assert.Equal(t, []string{"scheduled at must be provided", "unknown priority"}, v.Messages())
}

func TestValidatorValidWhenNoViolations(t *testing.T) {
	v := New()
	v.Check(true, "title", "title must be provided")

	assert.True(t, v.Valid())
	assert.Nil(t, v.Messages())
}
