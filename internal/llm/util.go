package llm

import (
	"regexp"
	"strings"
)

var (
	blankRuns = regexp.MustCompile(`\n{3,}`)
	bullet    = regexp.MustCompile(`(?m)^[ \t]*[-*•][ \t]+`)
)

// JoinPrompt places the system instruction ahead of the question for
// providers that take a single message.
func JoinPrompt(system, prompt string) string {
	system = strings.TrimSpace(system)
	if system == "" {
		return prompt
	}
	return system + "\n\nPertanyaan pengguna:\n" + prompt
}

// CleanReply strips the markdown the advisor is told not to produce:
// code fences, bold and heading markers, bullet prefixes and runs of blank
// lines.
func CleanReply(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			// Language identifier line
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	text = strings.NewReplacer("**", "", "### ", "", "## ", "", "# ", "").Replace(text)
	text = bullet.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
