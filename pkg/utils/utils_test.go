package utils

import (
	"net/http/httptest"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ruleInput struct {
	Start string `validate:"required,hhmm"`
	Day   int    `validate:"min=0,max=6"`
}

func TestValidateStruct_HHMM(t *testing.T) {
	cases := []struct {
		in    string
		valid bool
	}{
		{"09:00", true},
		{"23:59", true},
		{"24:00", true},
		{"24:01", false},
		{"9:00", false},
		{"12:60", false},
		{"ab:cd", false},
	}

	for _, tc := range cases {
		errs := ValidateStruct(ruleInput{Start: tc.in, Day: 1})
		if tc.valid {
			assert.Empty(t, errs, tc.in)
		} else {
			assert.Equal(t, "Must be a time in HH:MM format", errs["Start"], tc.in)
		}
	}
}

func TestValidateStruct_RangeMessage(t *testing.T) {
	errs := ValidateStruct(ruleInput{Start: "09:00", Day: 7})
	require.Len(t, errs, 1)
	assert.Equal(t, "Maximum value is 6", errs["Day"])
	assert.Equal(t, "Day: Maximum value is 6", FormatValidationErrors(errs))
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      AppConfig{Port: "8080", DefaultTimezone: "Europe/Berlin"},
			Database: DatabaseConfig{MaxConns: 5},
			Booking:  BookingConfig{MaxDaysAhead: 90},
			Rate:     RateLimitConfig{RPS: 5, Burst: 10},
		}
	}

	assert.NoError(t, valid().Validate())

	c := valid()
	c.App.Port = "http"
	assert.Error(t, c.Validate())

	c = valid()
	c.App.DefaultTimezone = "Mars/Olympus"
	assert.Error(t, c.Validate())

	c = valid()
	c.Booking.MaxDaysAhead = 0
	assert.Error(t, c.Validate())

	c = valid()
	c.Rate.Burst = 0
	assert.Error(t, c.Validate())
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.7:5123"
	assert.Equal(t, "10.0.0.7", ClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", ClientIP(r))
}

func TestPagination(t *testing.T) {
	assert.Equal(t, 3, CalculateTotalPages(21, 10))
	assert.Equal(t, 0, CalculateTotalPages(0, 10))
	assert.Equal(t, 20, CalculateOffset(3, 10))
	assert.Equal(t, 0, CalculateOffset(0, 10))
}
