package rendering

import "strings"

// EscapeLaTeX escapes special LaTeX characters in text
// Special characters: \ { } $ & % # ^ _ ~ < > |
func EscapeLaTeX(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\':
			result.WriteString(`\textbackslash{}`)
		case '{':
			result.WriteString(`\{`)
		case '}':
			result.WriteString(`\}`)
		case '$':
			result.WriteString(`\$`)
		case '&':
			result.WriteString(`\&`)
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '^':
			result.WriteString(`\textasciicircum{}`)
		case '_':
			result.WriteString(`\_`)
		case '~':
			result.WriteString(`\textasciitilde{}`)
		case '<':
			result.WriteString(`\textless{}`)
		case '>':
			result.WriteString(`\textgreater{}`)
		case '|':
			result.WriteString(`\textbar{}`)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// EscapeURL prepares a URL for the first argument of \href. hyperref reads
// the argument verbatim except for % and #, which must be escaped, and
// braces, backslashes, spaces and tildes, which are percent-encoded. A tilde
// would otherwise turn into a non-breaking space inside \address.
func EscapeURL(url string) string {
	if url == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(url) + 8)

	for _, r := range url {
		switch r {
		case '%':
			result.WriteString(`\%`)
		case '#':
			result.WriteString(`\#`)
		case '{':
			result.WriteString(`\%7B`)
		case '}':
			result.WriteString(`\%7D`)
		case '\\':
			result.WriteString(`\%5C`)
		case ' ':
			result.WriteString(`\%20`)
		case '~':
			result.WriteString(`\%7E`)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}
