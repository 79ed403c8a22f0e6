package assistants

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResolvesAliases(t *testing.T) {
	a, ok := New("vp")
	require.True(t, ok)
	assert.Equal(t, vanishingPointTypeName, a.TypeName())
}

func TestNewUnknownTypeFails(t *testing.T) {
	_, ok := New("nonexistent")
	assert.False(t, ok)
}

func TestFromVariantMissingTypeFails(t *testing.T) {
	_, ok := FromVariant(Variant{"enabled": true})
	assert.False(t, ok)
}

func TestFromVariantResolvesAliasedType(t *testing.T) {
	a, ok := FromVariant(Variant{"type": "ruler"})
	require.True(t, ok)
	assert.Equal(t, straightedgeTypeName, a.TypeName())
}

func TestRegisteredTypesSorted(t *testing.T) {
	names := RegisteredTypes()
	for i := 1; i < len(names); i++ {
		assert.LessOrEqual(t, names[i-1], names[i])
	}
	assert.Contains(t, names, circleTypeName)
	assert.Contains(t, names, ellipseTypeName)
}
