package assistants

import "sort"

// Factory builds a fresh, default-configured assistant instance.
type Factory func() Assistant

var registry = map[string]Factory{
	straightedgeTypeName:   func() Assistant { return NewStraightedge() },
	circleTypeName:         func() Assistant { return NewCircle() },
	vanishingPointTypeName: func() Assistant { return NewVanishingPoint() },
	ellipseTypeName:        func() Assistant { return NewEllipse() },
}

// aliases maps historical or alternate type names, as they might appear in
// documents saved by an older build, onto the current canonical name.
var aliases = map[string]string{
	"ruler":     straightedgeTypeName,
	"straight":  straightedgeTypeName,
	"vanishing": vanishingPointTypeName,
	"vp":        vanishingPointTypeName,
	"ellipsis":  ellipseTypeName,
}

func canonicalName(typeName string) string {
	if _, ok := registry[typeName]; ok {
		return typeName
	}
	if canon, ok := aliases[typeName]; ok {
		return canon
	}
	return typeName
}

// New constructs a fresh assistant of the given type name, resolving
// aliases first. It reports false for an unknown type name.
func New(typeName string) (Assistant, bool) {
	factory, ok := registry[canonicalName(typeName)]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// FromVariant constructs an assistant from a persisted variant, resolving
// its "type" field (including aliases) and loading the remaining fields
// into it. It reports false if the type is missing, not a string, or
// unknown.
func FromVariant(v Variant) (Assistant, bool) {
	typeName, ok := v["type"].(string)
	if !ok {
		return nil, false
	}
	a, ok := New(typeName)
	if !ok {
		return nil, false
	}
	a.LoadVariant(v)
	return a, true
}

// RegisteredTypes returns the canonical type names currently registered,
// sorted for stable display in a palette or menu.
func RegisteredTypes() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
