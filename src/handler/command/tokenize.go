package command

import (
	"regexp"
	"strings"
)

// Tokenize splits a command line on unquoted whitespace. Single or double
// quotes group words until the matching quote; an unterminated quote runs to
// the end of the line. The quotes themselves are dropped.
func Tokenize(line string) []string {
	var (
		tokens  []string
		current strings.Builder
		quote   rune
		inToken bool
	)

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
				continue
			}
			current.WriteRune(r)
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inToken {
				tokens = append(tokens, current.String())
				current.Reset()
				inToken = false
			}
		default:
			current.WriteRune(r)
			inToken = true
		}
	}
	if inToken {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// valueParams are PowerShell parameters that take the following token as
// their value.
var valueParams = map[string]bool{
	"path":        true,
	"literalpath": true,
	"destination": true,
	"newname":     true,
	"value":       true,
	"itemtype":    true,
	"filter":      true,
	"depth":       true,
	"count":       true,
}

// cmdSwitch matches cmd.exe switches such as /s, /q, /ad or /a:d. Longer
// tokens starting with a slash are treated as paths, and so are short ones
// that name an existing node.
var cmdSwitch = regexp.MustCompile(`^/[A-Za-z?]{1,3}(:[A-Za-z-]+)?$`)

// arguments is a parsed argument list: positional arguments plus switches
// keyed by their lower-cased name without the leading - or /.
type arguments struct {
	positional []string
	switches   map[string]string
}

// parseArguments splits tokens into switches and positional arguments.
// exists, when set, reports whether a slash token names an existing path.
func parseArguments(tokens []string, exists func(tok string) bool) arguments {
	a := arguments{switches: make(map[string]string)}
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case len(tok) > 1 && tok[0] == '-' && isLetter(tok[1]):
			name, value, hasValue := strings.Cut(tok[1:], ":")
			name = strings.ToLower(name)
			if !hasValue && valueParams[name] && i+1 < len(tokens) {
				i++
				value = tokens[i]
			}
			a.switches[name] = value
		case cmdSwitch.MatchString(tok) && (exists == nil || !exists(tok)):
			name, value, _ := strings.Cut(tok[1:], ":")
			a.switches[strings.ToLower(name)] = value
		default:
			a.positional = append(a.positional, tok)
		}
	}
	return a
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// has reports whether any of the named switches was given.
func (a arguments) has(names ...string) bool {
	for _, n := range names {
		if _, ok := a.switches[n]; ok {
			return true
		}
	}
	return false
}

// value returns the value of the first named switch that was given.
func (a arguments) value(names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := a.switches[n]; ok {
			return v, true
		}
	}
	return "", false
}

// arg returns positional argument i, falling back to the value of one of
// the named switches (e.g. -Path).
func (a arguments) arg(i int, names ...string) (string, bool) {
	if v, ok := a.value(names...); ok && v != "" {
		return v, true
	}
	if i < len(a.positional) {
		return a.positional[i], true
	}
	return "", false
}

// param lists the names a parameter can be given by, e.g. -Path or
// -LiteralPath.
type param []string

// bind assigns values to params the way PowerShell does: named values first,
// then the positional arguments in order to the params still unbound.
// Unbound params are returned as "".
func (a arguments) bind(params ...param) []string {
	out := make([]string, len(params))
	named := make([]bool, len(params))
	for i, p := range params {
		if v, ok := a.value(p...); ok && v != "" {
			out[i] = v
			named[i] = true
		}
	}
	next := 0
	for i := range params {
		if named[i] || next >= len(a.positional) {
			continue
		}
		out[i] = a.positional[next]
		next++
	}
	return out
}
