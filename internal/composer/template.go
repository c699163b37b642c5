package composer

import (
	"fmt"
	"regexp"
)

var placeholderPattern = regexp.MustCompile(`\{\{(\w+)\}\}`)

// RenderTemplate substitutes {{name}} placeholders with stringified values.
// Placeholders with no matching value stay in the output as literal text, so
// a partially-filled template still renders instead of failing the whole
// notification.
func RenderTemplate(template string, vars map[string]interface{}) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		value, ok := vars[name]
		if !ok {
			return match
		}
		return stringify(value)
	})
}

func stringify(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.1f", v)
	case float32:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
