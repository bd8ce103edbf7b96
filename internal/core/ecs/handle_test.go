package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Handle_MakeAndDecode_RoundTrips(t *testing.T) {
	// Arrange
	h := MustNewHandle(20, 12)

	// Act
	e := h.Make(12345, 67)

	// Assert
	assert.Equal(t, uint64(12345), h.Index(e))
	assert.Equal(t, uint64(67), h.Version(e))
}

func Test_Handle_NewHandle_RejectsNonPositiveBitWidths(t *testing.T) {
	// Arrange & Act
	_, errIndex := NewHandle(0, 4)
	_, errVersion := NewHandle(12, 0)

	// Assert
	assert.ErrorIs(t, errIndex, ErrInvalidBitWidth)
	assert.ErrorIs(t, errVersion, ErrInvalidBitWidth)
}

func Test_Handle_NewHandle_RejectsOversizedTotal(t *testing.T) {
	// Arrange & Act
	_, err := NewHandle(40, 40)

	// Assert
	assert.ErrorIs(t, err, ErrInvalidBitWidth)
}

func Test_Handle_MustNewHandle_PanicsOnInvalidWidths(t *testing.T) {
	// Arrange, Act & Assert
	assert.Panics(t, func() { MustNewHandle(0, 0) })
}

func Test_Handle_Bits_ReportsSmallVsBigKind(t *testing.T) {
	// Arrange
	small := SmallHandle()
	big := LargeHandle()

	// Act & Assert
	assert.Equal(t, HandleSmall, small.Bits().Kind)
	assert.Equal(t, HandleBig, big.Bits().Kind)
	assert.Equal(t, "small", small.Bits().Kind.String())
	assert.Equal(t, "big", big.Bits().Kind.String())
}

func Test_Handle_Bits_ReportsConfiguredWidths(t *testing.T) {
	// Arrange
	h := MustNewHandle(20, 12)

	// Act
	bits := h.Bits()

	// Assert
	assert.Equal(t, 20, bits.IndexBits)
	assert.Equal(t, 12, bits.VersionBits)
	assert.Equal(t, 32, bits.TotalBits)
}

func Test_Handle_Equals_ComparesEncodedValue(t *testing.T) {
	// Arrange
	h := MediumHandle()
	a := h.Make(1, 2)
	b := h.Make(1, 2)
	c := h.Make(1, 3)

	// Act & Assert
	assert.True(t, h.Equals(a, b))
	assert.False(t, h.Equals(a, c))
}

func Test_Handle_InvalidIndex_IsReservedSentinel(t *testing.T) {
	// Arrange
	h := SmallHandle()

	// Act
	invalid := h.InvalidIndex()

	// Assert
	assert.Equal(t, uint64(1<<12)-1, invalid)
}

func Test_Handle_MaxVersion_MatchesVersionFieldWidth(t *testing.T) {
	// Arrange
	h := SmallHandle()

	// Act
	max := h.MaxVersion()

	// Assert
	assert.Equal(t, uint64(1<<4)-1, max)
}

func Test_Handle_OutOfRangeInputsAreSilentlyMasked(t *testing.T) {
	// Arrange
	h := SmallHandle()

	// Act: version 99 exceeds the 4-bit field (max 15).
	e := h.Make(1, 99)

	// Assert
	assert.Equal(t, uint64(99)&h.MaxVersion(), h.Version(e))
}
