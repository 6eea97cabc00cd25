package services

import "regexp"

// placeholderPattern matches {{ NAME }} tokens, with optional whitespace
// inside the delimiters. Names are uppercase letters, digits and underscores.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Z0-9_]+)\s*\}\}`)

type RenderService struct{}

func NewRenderService() *RenderService {
	return &RenderService{}
}

// Render substitutes every known placeholder in the template with its mapped
// value. Placeholders whose name is not in the mapping are left verbatim, so
// rendering never fails.
func (s *RenderService) Render(template string, values map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := values[name]; ok {
			return value
		}
		return match
	})
}
