package content

// Resolve overlays overrides on defaults and returns a new document.
//
// For each key in overrides: when both sides are objects they are merged
// recursively; anything else (arrays, scalars, an object replacing a scalar)
// replaces the default wholesale. Keys missing from overrides keep their
// default. Neither input is modified.
func Resolve(defaults, overrides map[string]any) map[string]any {
	out := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		out[k] = deepCopy(v)
	}
	for k, over := range overrides {
		base, baseIsObj := out[k].(map[string]any)
		overObj, overIsObj := over.(map[string]any)
		if baseIsObj && overIsObj {
			out[k] = Resolve(base, overObj)
			continue
		}
		out[k] = deepCopy(over)
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = deepCopy(val)
		}
		return out
	default:
		return v
	}
}
