package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("LANDER_TEST_SET", "  value ")
	t.Setenv("LANDER_TEST_BLANK", "   ")

	assert.Equal(t, "value", GetEnv("LANDER_TEST_SET", "x"))
	assert.Equal(t, "x", GetEnv("LANDER_TEST_BLANK", "x"))
	assert.Equal(t, "x", GetEnv("LANDER_TEST_MISSING", "x"))
}

func TestGetEnvPort(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"2222", 2222},
		{"0", 8080},
		{"70000", 8080},
		{"ssh", 8080},
		{"", 8080},
	}
	for _, tt := range tests {
		t.Setenv("LANDER_TEST_PORT", tt.value)
		assert.Equal(t, tt.want, GetEnvPort("LANDER_TEST_PORT", 8080), tt.value)
	}
}
