package fenceinfo

import "strconv"

// GetFirstBareWord returns the first positional token, or "" if none.
func (f FenceInfo) GetFirstBareWord() string {
	if len(f.Pos) == 0 {
		return ""
	}
	return f.Pos[0]
}

// GetBareWord returns the n-th (0-indexed) positional token, or "" if out of
// range.
func (f FenceInfo) GetBareWord(n int) string {
	if n < 0 || n >= len(f.Pos) {
		return ""
	}
	return f.Pos[n]
}

// HasFlag reports whether name or any of aliases was set.
func (f FenceInfo) HasFlag(name string, aliases ...string) bool {
	if _, ok := f.Flags[name]; ok {
		return true
	}
	for _, a := range aliases {
		if _, ok := f.Flags[a]; ok {
			return true
		}
	}
	return false
}

// GetFlag returns the last occurrence's string representation of name or one
// of aliases, and whether it was present.
func (f FenceInfo) GetFlag(name string, aliases ...string) (string, bool) {
	values := f.GetFlagValues(append([]string{name}, aliases...)...)
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// GetFlagValues flattens every occurrence of name and any aliases, in
// encounter order, rendered as strings ("true"/"false" for bool kind).
func (f FenceInfo) GetFlagValues(names ...string) []string {
	var out []string
	for _, name := range names {
		for _, v := range f.Flags[name] {
			out = append(out, v.asString())
		}
	}
	return out
}

// IsEnabled reports whether name or any alias is set to a truthy value: any
// presence except an explicit boolean-false string value.
func (f FenceInfo) IsEnabled(name string, aliases ...string) bool {
	names := append([]string{name}, aliases...)
	found := false
	for _, n := range names {
		for _, v := range f.Flags[n] {
			found = true
			if v.Kind == FlagKindString && v.String == "false" {
				return false
			}
		}
	}
	return found
}

func (v FlagValue) asString() string {
	switch v.Kind {
	case FlagKindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case FlagKindNumber:
		return trimFloat(v.Number)
	default:
		return v.String
	}
}

func trimFloat(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}
