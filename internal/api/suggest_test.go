package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosest(t *testing.T) {
	modes := modeNames()
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"clinical", "Clinical", true},
		{"Clinicl", "Clinical", true},
		{" patnet ", "Patent", true},
		{"Oncology", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := closest(tt.in, modes)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestUnknownValueError(t *testing.T) {
	_, err := parseRunConfig("Markit", "India")
	assert.EqualError(t, err, `unknown mode "Markit", did you mean "Market"?`)

	_, err = parseRunConfig("General", "Kenya")
	assert.EqualError(t, err, `unknown geography "Kenya", expected one of India`)
}
