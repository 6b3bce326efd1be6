package attach_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lotdrop/lotdrop/pkg/attach"
)

func TestDecodeFullShapeStripsDecoration(t *testing.T) {
	decoded := attach.Decode("1A_2_some_name.png")

	assert.Equal(t, "1A", decoded.OwnerKey)
	require.NotNil(t, decoded.Sequence)
	assert.Equal(t, 2, *decoded.Sequence)
	assert.Equal(t, "some_name.png", decoded.StoredFilename)
}

func TestDecodeSequenceWithExtensionKeepsOriginalName(t *testing.T) {
	decoded := attach.Decode("1A_11.jpg")

	assert.Equal(t, "1A", decoded.OwnerKey)
	require.NotNil(t, decoded.Sequence)
	assert.Equal(t, 11, *decoded.Sequence)
	assert.Equal(t, "1A_11.jpg", decoded.StoredFilename)
}

func TestDecodeNoUnderscore(t *testing.T) {
	for _, filename := range []string{"catalogue.pdf", "x", "", "photo.png"} {
		decoded := attach.Decode(filename)

		assert.Equal(t, filename, decoded.OwnerKey, filename)
		assert.Nil(t, decoded.Sequence, filename)
		assert.Equal(t, filename, decoded.StoredFilename, filename)
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		ownerKey string
	}{
		{"non-digit sequence segment", "1A_X_some_name.png", "1A"},
		{"empty sequence segment", "9_.jpg", "9"},
		{"empty segment then name", "9__.jpg", "9"},
		{"digits then trailing underscore only", "1A_2_", "1A"},
		{"digits then suffix with underscore", "1A_11.some_name.jpg", "1A"},
		{"digits only, no suffix", "1A_11", "1A"},
		{"empty prefix and remainder", "_", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decoded := attach.Decode(tc.filename)

			assert.Equal(t, tc.ownerKey, decoded.OwnerKey)
			assert.Nil(t, decoded.Sequence)
			assert.Equal(t, tc.filename, decoded.StoredFilename)
		})
	}
}

func TestDecodeZeroSequence(t *testing.T) {
	decoded := attach.Decode("4_0_front.jpeg")

	require.NotNil(t, decoded.Sequence)
	assert.Equal(t, 0, *decoded.Sequence)
	assert.Equal(t, "front.jpeg", decoded.StoredFilename)
}

func TestDecodeMultiDigitSequenceParsesNumerically(t *testing.T) {
	decoded := attach.Decode("9_120_back.png")

	require.NotNil(t, decoded.Sequence)
	assert.Equal(t, 120, *decoded.Sequence)
	assert.Equal(t, "back.png", decoded.StoredFilename)
}

func TestDecodeStoredNameMayContainUnderscores(t *testing.T) {
	decoded := attach.Decode("1B_3_left_side_detail.jpg")

	require.NotNil(t, decoded.Sequence)
	assert.Equal(t, 3, *decoded.Sequence)
	assert.Equal(t, "left_side_detail.jpg", decoded.StoredFilename)
}
