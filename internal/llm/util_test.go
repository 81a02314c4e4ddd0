package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanReply(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text",
			input:    "  Anda memerlukan sertifikat asal barang.  ",
			expected: "Anda memerlukan sertifikat asal barang.",
		},
		{
			name:     "bold and bullets",
			input:    "**Dokumen** utama:\n- NIB\n* SKA\n• Invoice",
			expected: "Dokumen utama:\nNIB\nSKA\nInvoice",
		},
		{
			name:     "headings",
			input:    "## Regulasi\nIsi jawaban",
			expected: "Regulasi\nIsi jawaban",
		},
		{
			name:     "code fence with language",
			input:    "```text\nHalo\n```",
			expected: "Halo",
		},
		{
			name:     "blank line runs",
			input:    "Paragraf satu.\n\n\n\nParagraf dua.",
			expected: "Paragraf satu.\n\nParagraf dua.",
		},
		{
			name:     "hyphen inside sentence kept",
			input:    "Pasar Uni Eropa - khususnya Jerman.",
			expected: "Pasar Uni Eropa - khususnya Jerman.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanReply(tt.input))
		})
	}
}

func TestJoinPrompt(t *testing.T) {
	assert.Equal(t, "Apa itu HS code?", JoinPrompt("", "Apa itu HS code?"))
	assert.Equal(t,
		"Anda penasihat ekspor.\n\nPertanyaan pengguna:\nApa itu HS code?",
		JoinPrompt("  Anda penasihat ekspor. ", "Apa itu HS code?"))
}
