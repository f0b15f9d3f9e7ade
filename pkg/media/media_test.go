package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		library Library
		id      string
		variant Variant
		want    string
	}{
		{LibraryGlobal, "abc-123", VariantOriginal, "media/global/abc-123/original.png"},
		{LibraryGlobal, "abc-123", VariantResized, "media/global/abc-123/resized.png"},
		{LibraryUser, "def-456", VariantOriginal, "media/user/def-456/original.png"},
		{LibraryUser, "def-456", VariantResized, "media/user/def-456/resized.png"},
	}

	for _, tt := range tests {
		got, err := Key(tt.library, tt.id, tt.variant)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestKey_RejectsUnknownValues(t *testing.T) {
	_, err := Key("web", "abc-123", VariantOriginal)
	assert.ErrorIs(t, err, ErrUnknownLibrary)

	_, err = Key(LibraryGlobal, "abc-123", "thumbnail")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestParseLibrary(t *testing.T) {
	l, err := ParseLibrary("user")
	require.NoError(t, err)
	assert.Equal(t, LibraryUser, l)

	_, err = ParseLibrary("Global")
	assert.ErrorIs(t, err, ErrUnknownLibrary)
}
