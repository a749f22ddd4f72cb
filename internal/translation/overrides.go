package translation

import "strconv"

// Overrides is an optional external key-value source for per-provider prompt
// and sampling settings.
type Overrides interface {
	// Get returns the value for a key and whether the key is present.
	Get(key string) (string, bool)
}

// resolveOverride walks the layered lookup chain for one setting: the
// provider-namespaced key first, then the bare key, then the hardcoded
// fallback.
func resolveOverride(overrides Overrides, namespace, key, fallback string) string {
	if overrides == nil {
		return fallback
	}
	candidates := []string{key}
	if namespace != "" {
		candidates = []string{namespace + "." + key, key}
	}
	for _, candidate := range candidates {
		if value, ok := overrides.Get(candidate); ok {
			return value
		}
	}
	return fallback
}

// resolveFloatOverride is resolveOverride for numeric settings. Values that
// do not parse fall through to the fallback.
func resolveFloatOverride(overrides Overrides, namespace, key string, fallback float64) float64 {
	raw := resolveOverride(overrides, namespace, key, "")
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
