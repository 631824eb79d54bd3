package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/heifsys/internal/core/domain"
)

func TestInternedString(t *testing.T) {
	is1 := domain.NewInternedString("libheif")
	is2 := domain.NewInternedString("libheif")

	assert.Equal(t, is1, is2)
	assert.Equal(t, "libheif", is1.String())
	assert.Empty(t, domain.InternedString{}.String())
}

func TestInternedStringJSON(t *testing.T) {
	original := domain.NewInternedString("x265")

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `"x265"`, string(data))

	var decoded domain.InternedString
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}
