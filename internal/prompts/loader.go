// Package prompts holds the assistant's prompt texts. Each JSON file in
// this directory is a set of named prompts, embedded at compile time and
// addressed by file name and key.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"
)

// Prompt sets.
const (
	Assistant = "assistant.json"
	Keywords  = "keywords.json"
)

//go:embed *.json
var promptFiles embed.FS

var (
	cache   = make(map[string]map[string]string)
	cacheMu sync.RWMutex
)

// Get retrieves a prompt by set and key.
func Get(set, key string) (string, error) {
	prompts, err := loadSet(set)
	if err != nil {
		return "", err
	}

	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, set)
	}
	return prompt, nil
}

// MustGet is Get for prompts required at initialization time.
func MustGet(set, key string) string {
	prompt, err := Get(set, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} placeholders with values from data. Unknown
// placeholders are left as they are.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// Sets lists the embedded prompt sets.
func Sets() ([]string, error) {
	return fs.Glob(promptFiles, "*.json")
}

// Keys returns the sorted prompt keys of a set.
func Keys(set string) ([]string, error) {
	prompts, err := loadSet(set)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(prompts))
	for key := range prompts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func loadSet(set string) (map[string]string, error) {
	cacheMu.RLock()
	prompts, ok := cache[set]
	cacheMu.RUnlock()
	if ok {
		return prompts, nil
	}

	data, err := promptFiles.ReadFile(set)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", set, err)
	}
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", set, err)
	}

	cacheMu.Lock()
	cache[set] = prompts
	cacheMu.Unlock()
	return prompts, nil
}

// ClearCache drops parsed sets.
func ClearCache() {
	cacheMu.Lock()
	cache = make(map[string]map[string]string)
	cacheMu.Unlock()
}
