package collector

import (
	"fmt"
	"strings"
)

// TranslationTable maps "{category}_{exerciseKey}" keys to localized display
// names. Immutable after construction; a lookup miss is a recoverable
// condition handled by the caller, not an error.
type TranslationTable struct {
	entries map[string]string
}

// ParseTranslations parses the newline-delimited key=value properties text.
// Lines without an equals sign are ignored; keys and values are trimmed.
func ParseTranslations(text string) *TranslationTable {
	entries := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		entries[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return &TranslationTable{entries: entries}
}

// Resolve looks up the display name for one exercise identity. The second
// return value distinguishes a genuine miss from an empty translation.
func (t *TranslationTable) Resolve(category, exerciseKey string) (string, bool) {
	name, ok := t.entries[category+"_"+exerciseKey]
	return name, ok
}

// FallbackName is the deterministic display name used when no translation
// exists. Every row must end up with a non-absent name, so this is part of
// the output contract rather than a convenience.
func FallbackName(category, exerciseKey string) string {
	return fmt.Sprintf("%s %s", category, exerciseKey)
}

// Len reports the number of parsed entries.
func (t *TranslationTable) Len() int {
	return len(t.entries)
}
