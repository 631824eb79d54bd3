package pkgconfig_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/heifsys/internal/adapters/pkgconfig"
)

func TestAtLeast(t *testing.T) {
	tests := []struct {
		version string
		min     string
		want    bool
	}{
		{"1.16.0", "1.16", true},
		{"1.17.6", "1.16", true},
		{"1.15.2", "1.16", false},
		{"1.16", "1.16.0", true},
		{"2.0", "1.16", true},
		{"1.16.0.1", "1.16.1", false},
		{"1.9", "1.16", false},
		{"1.18.0-rc1", "1.16", true},
		{"0.6.1", "0.6.1", true},
	}

	for _, tt := range tests {
		t.Run(tt.version+">="+tt.min, func(t *testing.T) {
			assert.Equal(t, tt.want, pkgconfig.AtLeast(tt.version, tt.min))
		})
	}
}
