// File path: internal/extract/parser.go
package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bhanuchaddha/online-menu-card/internal/menu"
)

var fencedJSON = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")

// ParseExtraction decodes a model reply into a menu extraction. Models are
// asked for bare JSON but frequently wrap it in markdown fences or prose, so
// a best-effort scan for an embedded JSON object runs before giving up.
func ParseExtraction(content string) (menu.Extraction, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return menu.Extraction{}, fmt.Errorf("%w: empty model reply", menu.ErrMalformedExtraction)
	}
	if ext, err := menu.DecodeExtraction([]byte(trimmed)); err == nil {
		return ext, nil
	}
	candidate := ""
	if match := fencedJSON.FindStringSubmatch(trimmed); len(match) > 1 {
		candidate = match[1]
	} else if start := strings.Index(trimmed, "{"); start >= 0 {
		if end := strings.LastIndex(trimmed, "}"); end > start {
			candidate = trimmed[start : end+1]
		}
	}
	if candidate != "" {
		if ext, err := menu.DecodeExtraction([]byte(candidate)); err == nil {
			return ext, nil
		}
	}
	return menu.Extraction{}, fmt.Errorf("%w: no parseable JSON in model reply", menu.ErrMalformedExtraction)
}
