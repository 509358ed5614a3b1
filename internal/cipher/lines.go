package cipher

import (
	"strings"
	"unicode"
)

// Apply runs transform over text. In line mode every line separated by '\n'
// is converted on its own; blank lines are copied through untouched and the
// first failing line, in input order, decides the result. Empty text is
// always Ok("") and never reaches transform.
func Apply(transform TransformFunc, text string, lineMode bool) Result {
	if text == "" {
		return Ok("")
	}
	if !lineMode {
		return transform(text)
	}

	lines := strings.Split(text, "\n")
	values := make([]string, len(lines))
	for i, line := range lines {
		if isBlank(line) {
			values[i] = line
			continue
		}
		res := transform(line)
		if !res.OK() {
			return res
		}
		values[i] = res.Value()
	}
	return Ok(strings.Join(values, "\n"))
}

func isBlank(line string) bool {
	return strings.TrimFunc(line, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	}) == ""
}
