// Package toolcall extracts whitelisted tool invocations from model-generated
// free text. Only two call shapes are ever recognized:
//
//	search(<string>, <int>)
//	create(<string>, <string>, <string>, [track_uris] | [<string>, ...])
//
// Everything else in the text is ignored. Arguments are literal values only;
// nothing is ever evaluated.
package toolcall

import (
	"fmt"
	"strconv"
	"strings"
)

// Whitelisted call names.
const (
	NameSearch = "search"
	NameCreate = "create"
)

// Placeholder is the reserved token standing for "the track ids returned by
// the previous successful search".
const Placeholder = "[track_uris]"

// ArgType tags the literal kind of one argument.
type ArgType int

const (
	ArgString ArgType = iota
	ArgInt
	ArgPlaceholder
	ArgList
)

// Arg is one literal argument value.
type Arg struct {
	Type ArgType
	Str  string
	Int  int
	List []string
}

// Call is a single parsed, whitelisted tool invocation.
type Call struct {
	Name string
	Args []Arg
}

// Parse scans text for whitelisted calls and returns them in order of
// occurrence. Candidates that match an identifier but fail literal-argument
// parsing are skipped; scanning continues after them.
func Parse(text string) []Call {
	var calls []Call
	i := 0
	for i < len(text) {
		name, nameEnd := matchName(text, i)
		if name == "" {
			i++
			continue
		}
		call, end, err := parseCall(text, name, nameEnd)
		if err != nil {
			// Malformed candidate: skip the identifier, keep scanning.
			i = nameEnd
			continue
		}
		calls = append(calls, call)
		i = end
	}
	return calls
}

// matchName reports a whitelisted identifier starting at i on a word
// boundary, returning its name and the index just past it.
func matchName(text string, i int) (string, int) {
	if i > 0 && isWordByte(text[i-1]) {
		return "", 0
	}
	for _, name := range []string{NameSearch, NameCreate} {
		end := i + len(name)
		if end > len(text) || text[i:end] != name {
			continue
		}
		if end < len(text) && isWordByte(text[end]) {
			continue
		}
		return name, end
	}
	return "", 0
}

// parseCall parses "(<args>)" after the identifier and validates the call
// shape against the whitelist.
func parseCall(text, name string, pos int) (Call, int, error) {
	pos = skipSpace(text, pos)
	if pos >= len(text) || text[pos] != '(' {
		return Call{}, pos, fmt.Errorf("expected '(' after %s", name)
	}
	args, end, err := parseArgs(text, pos+1)
	if err != nil {
		return Call{}, pos, err
	}
	call := Call{Name: name, Args: args}
	if err := validateShape(call); err != nil {
		return Call{}, pos, err
	}
	return call, end, nil
}

// parseArgs parses a comma-separated literal list up to the closing paren.
func parseArgs(text string, pos int) ([]Arg, int, error) {
	var args []Arg
	for {
		pos = skipSpace(text, pos)
		if pos >= len(text) {
			return nil, pos, fmt.Errorf("unterminated argument list")
		}
		if text[pos] == ')' {
			if len(args) > 0 {
				return nil, pos, fmt.Errorf("trailing comma in argument list")
			}
			return args, pos + 1, nil
		}
		arg, next, err := parseArg(text, pos)
		if err != nil {
			return nil, pos, err
		}
		args = append(args, arg)
		pos = skipSpace(text, next)
		if pos >= len(text) {
			return nil, pos, fmt.Errorf("unterminated argument list")
		}
		switch text[pos] {
		case ',':
			pos++
		case ')':
			return args, pos + 1, nil
		default:
			return nil, pos, fmt.Errorf("unexpected byte %q in argument list", text[pos])
		}
	}
}

// parseArg parses one literal: a quoted string, an integer, the placeholder
// token, or a bracketed list of quoted strings.
func parseArg(text string, pos int) (Arg, int, error) {
	switch ch := text[pos]; {
	case ch == '\'' || ch == '"':
		s, next, err := parseQuoted(text, pos)
		if err != nil {
			return Arg{}, pos, err
		}
		return Arg{Type: ArgString, Str: s}, next, nil
	case ch == '[':
		return parseBracketed(text, pos)
	case ch >= '0' && ch <= '9':
		end := pos
		for end < len(text) && text[end] >= '0' && text[end] <= '9' {
			end++
		}
		n, err := strconv.Atoi(text[pos:end])
		if err != nil {
			return Arg{}, pos, err
		}
		return Arg{Type: ArgInt, Int: n}, end, nil
	default:
		return Arg{}, pos, fmt.Errorf("unexpected byte %q at argument start", ch)
	}
}

// parseBracketed handles the placeholder token and literal string lists.
func parseBracketed(text string, pos int) (Arg, int, error) {
	if strings.HasPrefix(text[pos:], Placeholder) {
		return Arg{Type: ArgPlaceholder}, pos + len(Placeholder), nil
	}
	pos++ // skip '['
	var items []string
	for {
		pos = skipSpace(text, pos)
		if pos >= len(text) {
			return Arg{}, pos, fmt.Errorf("unterminated list literal")
		}
		if text[pos] == ']' {
			return Arg{Type: ArgList, List: items}, pos + 1, nil
		}
		if text[pos] != '\'' && text[pos] != '"' {
			return Arg{}, pos, fmt.Errorf("list items must be string literals")
		}
		s, next, err := parseQuoted(text, pos)
		if err != nil {
			return Arg{}, pos, err
		}
		items = append(items, s)
		pos = skipSpace(text, next)
		if pos >= len(text) {
			return Arg{}, pos, fmt.Errorf("unterminated list literal")
		}
		switch text[pos] {
		case ',':
			pos++
		case ']':
			return Arg{Type: ArgList, List: items}, pos + 1, nil
		default:
			return Arg{}, pos, fmt.Errorf("unexpected byte %q in list literal", text[pos])
		}
	}
}

// parseQuoted parses a single- or double-quoted string with backslash
// escapes, returning the unescaped value and the index past the close quote.
func parseQuoted(text string, pos int) (string, int, error) {
	quote := text[pos]
	pos++
	var b strings.Builder
	for pos < len(text) {
		ch := text[pos]
		if ch == '\\' && pos+1 < len(text) {
			b.WriteByte(text[pos+1])
			pos += 2
			continue
		}
		if ch == quote {
			return b.String(), pos + 1, nil
		}
		b.WriteByte(ch)
		pos++
	}
	return "", pos, fmt.Errorf("unterminated string literal")
}

// validateShape enforces per-call arity and argument kinds.
func validateShape(c Call) error {
	switch c.Name {
	case NameSearch:
		if len(c.Args) != 2 || c.Args[0].Type != ArgString || c.Args[1].Type != ArgInt {
			return fmt.Errorf("search expects (string, int)")
		}
	case NameCreate:
		if len(c.Args) != 4 {
			return fmt.Errorf("create expects 4 arguments")
		}
		for i := 0; i < 3; i++ {
			if c.Args[i].Type != ArgString {
				return fmt.Errorf("create argument %d must be a string", i+1)
			}
		}
		if last := c.Args[3].Type; last != ArgPlaceholder && last != ArgList {
			return fmt.Errorf("create argument 4 must be the placeholder or a string list")
		}
	default:
		return fmt.Errorf("unknown call: %s", c.Name)
	}
	return nil
}

func skipSpace(text string, pos int) int {
	for pos < len(text) {
		switch text[pos] {
		case ' ', '\t', '\n', '\r':
			pos++
		default:
			return pos
		}
	}
	return pos
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
