package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testRequest struct {
	Day    string `validate:"required,day_key"`
	Status string `validate:"required,availability_status"`
}

func TestValidateDayKey(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(testRequest{Day: "2025-06-09", Status: "available"}))

	for _, day := range []string{"2025-6-9", "09-06-2025", "2025-06-09T00:00:00Z", "tomorrow"} {
		err := v.Validate(testRequest{Day: day, Status: "available"})
		assert.Error(t, err, "expected %q to be rejected", day)
	}
}

func TestValidateAvailabilityStatus(t *testing.T) {
	v := New()

	for _, status := range []string{"available", "unavailable", "maybe"} {
		assert.NoError(t, v.Validate(testRequest{Day: "2025-06-09", Status: status}))
	}

	for _, status := range []string{"busy", "Available", "none", "no response"} {
		err := v.Validate(testRequest{Day: "2025-06-09", Status: status})
		assert.Error(t, err, "expected %q to be rejected", status)
	}
}
