package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDedupeKey_StripsAngleBrackets(t *testing.T) {
	// Act
	key, synthetic := normalizeDedupeKey("<msg-1@mail.example.com>")

	// Assert
	assert.Equal(t, "msg-1@mail.example.com", key)
	assert.False(t, synthetic)
}

func TestNormalizeDedupeKey_KeepsBareID(t *testing.T) {
	// Act
	key, synthetic := normalizeDedupeKey("msg-2@mail.example.com")

	// Assert
	assert.Equal(t, "msg-2@mail.example.com", key)
	assert.False(t, synthetic)
}

func TestNormalizeDedupeKey_MissingIDGetsSyntheticKey(t *testing.T) {
	// Act
	first, firstSynthetic := normalizeDedupeKey("")
	second, secondSynthetic := normalizeDedupeKey("")

	// Assert
	// Two headerless deliveries are unrelated emails; each must get its
	// own key or the second one would be dropped as a duplicate.
	require.NotEmpty(t, first)
	require.NotEmpty(t, second)
	assert.True(t, firstSynthetic)
	assert.True(t, secondSynthetic)
	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "local_"))
}

func TestNormalizeDedupeKey_EmptyBracketsAreSynthetic(t *testing.T) {
	// Act
	key, synthetic := normalizeDedupeKey("<>")

	// Assert
	assert.True(t, synthetic)
	assert.NotEmpty(t, key)
}
