// Package fenceinfo tokenizes the info string of a fenced code block into a
// structured FenceInfo: an optional leading command language, ordered
// positional tokens, a flag map, and a trailing JSON5-ish attrs object.
package fenceinfo

import (
	"regexp"
	"strconv"
	"strings"

	runbookerrors "github.com/alexisbeaulieu97/runbookmd/pkg/errors"
)

// AttrsErrorPolicy controls how a malformed trailing `{...}` block is handled.
type AttrsErrorPolicy int

const (
	// AttrsIgnore discards the attrs block on parse failure, leaving Attrs nil.
	AttrsIgnore AttrsErrorPolicy = iota
	// AttrsStore preserves the raw source under the "__raw" key on failure.
	AttrsStore
	// AttrsThrow propagates the parse failure as an AttrsParseError.
	AttrsThrow
)

// NormalizeFlagKeyFunc rewrites a parsed flag key, e.g. to lower-case or to
// collapse aliases. The identity function is used when absent.
type NormalizeFlagKeyFunc func(key string) string

// Options configures a single Parse call.
type Options struct {
	CoerceNumbers     bool
	NormalizeFlagKey  NormalizeFlagKeyFunc
	RetainCmdLang     bool
	OnAttrsParseError AttrsErrorPolicy
	// Provenance identifies the fence for attrs-parse error reporting, e.g.
	// "Runbook.md:42".
	Provenance string
}

// FenceInfo is the structured result of tokenizing a fence's info string.
type FenceInfo struct {
	CmdLang   string
	Args      []string
	Pos       []string
	Flags     map[string][]FlagValue
	Attrs     map[string]interface{}
	AttrsText string
}

// FlagValue is either a string, a float64 (when CoerceNumbers applies), or
// the boolean true for a bare/boolean flag.
type FlagValue struct {
	Bool   bool
	Number float64
	String string
	Kind   FlagValueKind
}

// FlagValueKind discriminates a FlagValue's payload.
type FlagValueKind int

const (
	FlagKindBool FlagValueKind = iota
	FlagKindNumber
	FlagKindString
)

func stringFlag(s string) FlagValue  { return FlagValue{Kind: FlagKindString, String: s} }
func numberFlag(n float64) FlagValue { return FlagValue{Kind: FlagKindNumber, Number: n} }
func boolFlag() FlagValue            { return FlagValue{Kind: FlagKindBool, Bool: true} }

var numericPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// Parse tokenizes raw, a fence's info string, into a FenceInfo. It never
// fails for well-formed tokenization; attrs parse failures are handled per
// opts.OnAttrsParseError.
func Parse(raw string, opts Options) (FenceInfo, error) {
	body, attrsText := splitAttrs(raw)
	tokens := tokenize(body)

	info := FenceInfo{
		Flags:     make(map[string][]FlagValue),
		AttrsText: attrsText,
	}

	normalize := opts.NormalizeFlagKey
	if normalize == nil {
		normalize = func(k string) string { return k }
	}

	start := 0
	if len(tokens) > 0 && !strings.HasPrefix(tokens[0], "-") {
		info.CmdLang = tokens[0]
		if opts.RetainCmdLang {
			info.Args = append(info.Args, tokens[0])
		}
		start = 1
	}

	i := start
	for i < len(tokens) {
		tok := tokens[i]
		info.Args = append(info.Args, tok)

		switch {
		case strings.HasPrefix(tok, "--") || strings.HasPrefix(tok, "-"):
			key, value, hasValue := splitEquals(tok)
			key = normalize(trimDashes(key))
			if hasValue {
				info.addFlag(key, flagValueFor(value, opts.CoerceNumbers))
				i++
				continue
			}
			if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
				info.addFlag(key, flagValueFor(tokens[i+1], opts.CoerceNumbers))
				i += 2
				continue
			}
			info.addFlag(key, boolFlag())
			i++
		case strings.Contains(tok, "="):
			key, value, _ := splitEquals(tok)
			key = normalize(key)
			info.addFlag(key, flagValueFor(value, opts.CoerceNumbers))
			i++
		default:
			key := normalize(tok)
			info.addFlag(key, boolFlag())
			info.Pos = append(info.Pos, tok)
			i++
		}
	}

	if attrsText != "" {
		attrs, err := parseAttrs(attrsText)
		if err != nil {
			switch opts.OnAttrsParseError {
			case AttrsStore:
				info.Attrs = map[string]interface{}{"__raw": attrsText}
			case AttrsThrow:
				return info, runbookerrors.NewAttrsParseError(opts.Provenance, attrsText, err)
			default:
				info.Attrs = nil
			}
		} else {
			info.Attrs = attrs
		}
	}

	return info, nil
}

func (f *FenceInfo) addFlag(key string, v FlagValue) {
	if key == "" {
		return
	}
	f.Flags[key] = append(f.Flags[key], v)
}

func flagValueFor(raw string, coerceNumbers bool) FlagValue {
	if coerceNumbers && numericPattern.MatchString(raw) {
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return numberFlag(n)
		}
	}
	return stringFlag(raw)
}

func trimDashes(s string) string {
	return strings.TrimLeft(s, "-")
}

func splitEquals(tok string) (key, value string, hasValue bool) {
	idx := strings.IndexByte(tok, '=')
	if idx < 0 {
		return tok, "", false
	}
	return tok[:idx], tok[idx+1:], true
}

// tokenize splits on whitespace honoring single and double quotes; quotes are
// stripped from emitted tokens but embedded spaces are preserved. Leading
// dashes are kept as part of the token (quoting only affects the flag's
// value, handled by splitEquals afterwards on the unquoted token).
func tokenize(s string) []string {
	var tokens []string
	var cur strings.Builder
	var quote rune
	inToken := false

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			cur.WriteRune(r)
			inToken = true
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	flush()
	return tokens
}

// splitAttrs locates a balanced trailing `{...}` block (ignoring braces
// inside quoted string literals) and returns the body with it stripped plus
// the raw attrs text (without surrounding braces stripped — braces are kept
// since parseAttrs expects a full object literal).
func splitAttrs(s string) (body string, attrsText string) {
	idx := strings.IndexByte(s, '{')
	if idx < 0 {
		return s, ""
	}

	depth := 0
	var quote rune
	runes := []rune(s)
	start := -1
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '{':
			if depth == 0 {
				start = i
			}
			depth++
		case r == '}':
			depth--
			if depth == 0 && start >= 0 {
				attrsText = string(runes[start : i+1])
				body = string(runes[:start]) + string(runes[i+1:])
				return body, attrsText
			}
		}
	}

	// Unbalanced: treat the rest from idx as body, no attrs extracted.
	return s, ""
}
