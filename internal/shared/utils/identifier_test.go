package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsObjectID(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"65f1c0e8a1b2c3d4e5f60718", true},
		{"65F1C0E8A1B2C3D4E5F60718", true},
		{"65f1c0e8a1b2c3d4e5f6071", false},   // 23 ký tự
		{"65f1c0e8a1b2c3d4e5f607189", false}, // 25 ký tự
		{"zzf1c0e8a1b2c3d4e5f60718", false},
		{"ao-thun-nam", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsObjectID(tt.input))
		})
	}
}

func TestNewObjectID(t *testing.T) {
	a := NewObjectID()
	b := NewObjectID()

	assert.True(t, IsObjectID(a))
	assert.True(t, IsObjectID(b))
	assert.NotEqual(t, a, b)
}
