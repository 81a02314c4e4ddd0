// Package textutil formats values for display: dates, rupiah amounts, file
// names, sizes and initials.
package textutil

import (
	"math"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	day   = 24 * time.Hour
	month = 30 * day
	year  = 365 * day
)

var idPrinter = message.NewPrinter(language.Indonesian)

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
}

// A unit is used once the elapsed time exceeds one whole unit.
var agoMagnitudes = []humanize.RelTimeMagnitude{
	{D: time.Minute + time.Second, Format: "%d seconds %s", DivBy: time.Second},
	{D: time.Hour + time.Second, Format: "%d minutes %s", DivBy: time.Minute},
	{D: day + time.Second, Format: "%d hours %s", DivBy: time.Hour},
	{D: month + time.Second, Format: "%d days %s", DivBy: day},
	{D: year + time.Second, Format: "%d months %s", DivBy: month},
	{D: math.MaxInt64, Format: "%d years %s", DivBy: year},
}

// FormatDate renders t as "Jan 2, 2006". The zero time renders as "".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

// FormatCurrencyIDR renders an amount in rupiah with Indonesian digit
// grouping and no fraction, e.g. "Rp 1.500.000".
func FormatCurrencyIDR(amount float64) string {
	rounded := int64(math.Round(amount))
	if rounded < 0 {
		return "-Rp " + idPrinter.Sprintf("%d", -rounded)
	}
	return "Rp " + idPrinter.Sprintf("%d", rounded)
}

// Truncate shortens text to at most max runes followed by "...".
func Truncate(text string, max int) string {
	if max <= 0 || utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}

// TimeAgo describes how long before now t happened, e.g. "3 days ago".
func TimeAgo(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.CustomRelTime(t, now, "ago", "from now", agoMagnitudes)
}

// FileExtension returns the lower-cased extension of name without the dot.
func FileExtension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// FileType is the upper-cased extension shown as a document's type, or
// "FILE" when name has none.
func FileType(name string) string {
	if ext := FileExtension(name); ext != "" {
		return strings.ToUpper(ext)
	}
	return "FILE"
}

// IsImageFile reports whether name has a common image extension.
func IsImageFile(name string) bool {
	return imageExtensions[FileExtension(name)]
}

// Initials returns up to two upper-cased initials of name.
func Initials(name string) string {
	var out []rune
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

// HumanSize renders a byte count such as "2.4 MB".
func HumanSize(bytes int64) string {
	if bytes < 0 {
		bytes = 0
	}
	return humanize.Bytes(uint64(bytes))
}
