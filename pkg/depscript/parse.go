// SPDX-License-Identifier: MPL-2.0

package depscript

import (
	"fmt"
	"strings"
)

// ParseMacros expands macros in text for the target and parses the result.
func ParseMacros(path, text string, macros MacroSet) (*Manifest, error) {
	return Parse(path, macros.Expand(text))
}

// Parse parses macro-expanded manifest text. path is only used for error
// reporting and is recorded on the returned manifest.
//
// The whole manifest fails on the first malformed line; a partially parsed
// manifest is never returned.
func Parse(path, text string) (*Manifest, error) {
	m := &Manifest{Path: path}

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := normalizeLine(raw)
		if line == "" {
			continue
		}

		if m.Kind == 0 {
			switch line {
			case ListTag:
				m.Kind = KindList
			case ScriptTag:
				m.Kind = KindScript
			default:
				return nil, &ParseError{
					Path: path,
					Line: lineNo,
					Text: strings.TrimRight(raw, "\r"),
					Err:  fmt.Errorf("%w: first line must be %s or %s", ErrMissingTag, ListTag, ScriptTag),
				}
			}
			continue
		}

		switch m.Kind {
		case KindList:
			m.Includes = append(m.Includes, line)
		case KindScript:
			entry, err := ParseEntry(line)
			if err != nil {
				return nil, &ParseError{Path: path, Line: lineNo, Text: strings.TrimRight(raw, "\r"), Err: err}
			}
			entry.Line = lineNo
			m.Entries = append(m.Entries, entry)
		}
	}

	if m.Kind == 0 {
		return nil, &ParseError{
			Path: path,
			Err:  fmt.Errorf("%w: manifest is empty", ErrMissingTag),
		}
	}

	return m, nil
}

// ParseEntry parses a single normalized script line of the form
// system:architecture:configuration~source[=destination].
func ParseEntry(line string) (Entry, error) {
	condition, expression, found := strings.Cut(line, MainSeparator)
	if !found {
		return Entry{}, fmt.Errorf("%w: missing %q between condition and expression", ErrMalformedEntry, MainSeparator)
	}
	if strings.Contains(expression, MainSeparator) {
		return Entry{}, fmt.Errorf("%w: more than one %q", ErrMalformedEntry, MainSeparator)
	}

	fields := strings.Split(condition, ConditionSeparator)
	if len(fields) != 3 {
		return Entry{}, fmt.Errorf("%w: condition needs 3 %q-separated fields, got %d", ErrMalformedEntry, ConditionSeparator, len(fields))
	}

	parts := strings.Split(expression, ExpressionSeparator)
	if len(parts) > 2 {
		return Entry{}, fmt.Errorf("%w: expression needs at most 2 %q-separated fields, got %d", ErrMalformedEntry, ExpressionSeparator, len(parts))
	}
	source := parts[0]
	if source == "" {
		return Entry{}, fmt.Errorf("%w: empty source", ErrMalformedEntry)
	}
	destination := source
	if len(parts) == 2 && parts[1] != "" {
		destination = parts[1]
	}

	return Entry{
		System:        fields[0],
		Architecture:  fields[1],
		Configuration: fields[2],
		Source:        source,
		Destination:   destination,
	}, nil
}

// normalizeLine drops the comment and every whitespace character.
func normalizeLine(raw string) string {
	if idx := strings.Index(raw, CommentMarker); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.Join(strings.Fields(raw), "")
}
