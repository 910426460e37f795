package ingest

import (
	"path"
	"strings"

	"github.com/huangsam/locviz/schema"
	"github.com/src-d/enry/v2"
)

// otherType is used when no type can be derived from a path.
const otherType = "other"

// ResolveType derives a line type from a file path.
// Extension mode uses the lowercased extension without the dot.
// Language mode asks enry for the language and falls back to the extension.
func ResolveType(file string, mode schema.TypeMode) string {
	if mode == schema.TypeLanguage {
		if lang := enry.GetLanguage(path.Base(file), nil); lang != "" {
			return lang
		}
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(file)), ".")
	if ext == "" {
		return otherType
	}
	return ext
}
