package descriptor

import (
	"fmt"
	"sort"
)

// =============================================================================
// Merge Functions
// =============================================================================

// ShallowMerge copies every top-level key of overlay into base and returns the
// result. The overlay wins on key collision; nested values are replaced, not
// merged. A nil base yields a copy of overlay, so the caller never aliases the
// overlay document.
//
// Example:
//
//	ShallowMerge(map[string]any{"a": 1, "b": 2}, map[string]any{"b": 3})
//	// Returns: map[string]any{"a": 1, "b": 3}
func ShallowMerge(base, overlay map[string]any) map[string]any {
	if base == nil {
		base = make(map[string]any, len(overlay))
	}
	for k, v := range overlay {
		base[k] = v
	}
	return base
}

// MergeSensorCatalogs returns a new catalog holding every raw definition,
// updated by the profile definitions. Profile records replace raw records
// with the same sensor code.
func MergeSensorCatalogs(raw, profile SensorCatalog) SensorCatalog {
	combined := make(SensorCatalog, len(raw)+len(profile))
	for code, def := range raw {
		combined[code] = def
	}
	for code, def := range profile {
		combined[code] = def
	}
	return combined
}

// BuildInstruments keys each instrument's attributes by its output variable
// name. A later record with the same name replaces an earlier one.
func BuildInstruments(instruments []Instrument) map[string]any {
	out := make(map[string]any, len(instruments))
	for _, inst := range instruments {
		attrs, _ := cloneValue(map[string]any(inst.Attrs)).(map[string]any)
		if attrs == nil {
			attrs = map[string]any{}
		}
		out[inst.NCVarName] = attrs
	}
	return out
}

// =============================================================================
// Allowed Attributes
// =============================================================================

// AttributeSet is a set of netcdf attribute names.
type AttributeSet map[string]struct{}

// NewAttributeSet builds a set from names.
func NewAttributeSet(names ...string) AttributeSet {
	s := make(AttributeSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// AllowedAttributes are the sensor definition attributes copied into a
// manifest-driven netcdf variable. Anything else in a catalog record is dropped.
var AllowedAttributes = NewAttributeSet(
	"axis",
	"units",
	"long_name",
	"standard_name",
	"valid_min",
	"valid_max",
	"fill_value",
)

// Contains reports whether name is in the set.
func (s AttributeSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the set members in sorted order.
func (s AttributeSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Filter copies into dst the entries of attrs whose key is in the set.
func (s AttributeSet) Filter(dst, attrs map[string]any) {
	for k, v := range attrs {
		if s.Contains(k) {
			dst[k] = cloneValue(v)
		}
	}
}

// =============================================================================
// Document Helpers
// =============================================================================

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out, _ := cloneValue(map[string]any(d)).(map[string]any)
	return Document(out)
}

// asMap returns v as a string-keyed mapping. YAML mappings with non-string
// keys are converted by formatting their keys.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return map[string]any(m), true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// section returns the mapping stored under key. A missing or null section is
// reported as nil without error.
func section(doc Document, key string) (map[string]any, error) {
	v, ok := doc[key]
	if !ok || v == nil {
		return nil, nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil, NewFieldError(TemplateFile, key, ErrInvalidSection)
	}
	return m, nil
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Document:
		return cloneValue(map[string]any(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case map[any]any:
		m, _ := asMap(val)
		return cloneValue(m)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
