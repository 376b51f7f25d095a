package ollama

import (
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
)

type ModelInfo struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

const maxSuggestions = 3

// HasModel reports whether name is installed. A name without a tag matches
// its ":latest" variant, the way the Ollama server resolves it.
func HasModel(models []ModelInfo, name string) bool {
	want := strings.ToLower(name)
	if !strings.Contains(want, ":") {
		want += ":latest"
	}
	for _, m := range models {
		if strings.ToLower(m.Name) == want || strings.EqualFold(m.Name, name) {
			return true
		}
	}
	return false
}

// SuggestModels returns up to three installed model names that fuzzily match
// name, best match first.
func SuggestModels(name string, models []ModelInfo) []string {
	targets := make([]string, len(models))
	for i, m := range models {
		targets[i] = m.Name
	}

	// Match on the base name; "llama3.2:1b" should still suggest "llama3.2:3b".
	pattern := name
	if base, _, ok := strings.Cut(name, ":"); ok && base != "" {
		pattern = base
	}

	matches := fuzzy.Find(pattern, targets)
	suggestions := make([]string, 0, maxSuggestions)
	for _, match := range matches {
		if len(suggestions) == maxSuggestions {
			break
		}
		suggestions = append(suggestions, match.Str)
	}
	return suggestions
}
