package jersey

import "strings"

// ExtractJSONObject returns the first brace-balanced object in text,
// from its opening '{' through the matching '}' inclusive.
//
// Braces are counted without regard to quoting, so a literal '{' or '}'
// inside a string value shifts the match. Use ExtractJSONObjectQuoted when
// backend output may contain them.
func ExtractJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", &ExtractionError{Reason: ErrNoObject, Text: text}
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", &ExtractionError{Reason: ErrUnbalancedBraces, Text: text}
}

// ExtractJSONObjectQuoted is ExtractJSONObject with string-literal
// tracking: braces between unescaped double quotes are not counted.
// On input without braces inside strings both functions agree.
func ExtractJSONObjectQuoted(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		return "", &ExtractionError{Reason: ErrNoObject, Text: text}
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", &ExtractionError{Reason: ErrUnbalancedBraces, Text: text}
}
