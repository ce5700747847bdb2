package linux_installer

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/rs/zerolog/log"
)

type StringMap map[string]string

// ExpandVariables takes a string with template variables like {{.var}} and expands them
// with the given map.
func ExpandVariables(str string, variables StringMap) (expanded string) {
	functions := template.FuncMap{
		"replace": func(from, to, input string) string { return strings.Replace(input, from, to, -1) },
		"trim":    func(input string) string { return strings.Trim(input, " \r\n\t") },
		"upper":   func(input string) string { return strings.ToUpper(input) },
		"lower":   func(input string) string { return strings.ToLower(input) },
	}
	templ, err := template.New("").Funcs(functions).Parse(str)
	if err != nil {
		log.Warn().Err(err).Str("template", str).Msg("Invalid string template")
		return str
	}
	var buf bytes.Buffer
	err = templ.Execute(&buf, variables)
	if err != nil {
		log.Warn().Err(err).Str("template", str).Msg("Error executing template")
		return str
	}
	return buf.String()
}

// MergeVariables combines several variable maps into a single one. Duplicate keys will
// be overridden by the value in the last map which has the key.
func MergeVariables(varMaps ...StringMap) StringMap {
	merged := make(StringMap)
	for _, vars := range varMaps {
		for k, v := range vars {
			merged[k] = v
		}
	}
	return merged
}

type (
	// Replacement is a literal placeholder and the text it's replaced with.
	Replacement struct {
		From string
		To   string
	}
	// Replacements is an ordered set of literal substitutions for launcher templates.
	// Unlike ExpandVariables there's no template syntax: every occurrence of From is
	// replaced verbatim, one replacement after the other, in slice order.
	Replacements []Replacement
)

// Apply returns content with all replacements applied in order.
func (r Replacements) Apply(content string) string {
	for _, replacement := range r {
		content = strings.ReplaceAll(content, replacement.From, replacement.To)
	}
	return content
}
