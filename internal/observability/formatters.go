// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jonathan/trade-connect/internal/seed"
	"github.com/jonathan/trade-connect/internal/textutil"
	"github.com/jonathan/trade-connect/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, part := range wrap(line, boxWidth-4) {
			fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, part)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits line into pieces of at most width runes, breaking on spaces
// where it can.
func wrap(line string, width int) []string {
	if len([]rune(line)) <= width {
		return []string{line}
	}
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var out []string
	var cur strings.Builder
	for _, w := range words {
		for len([]rune(w)) > width {
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			r := []rune(w)
			out = append(out, string(r[:width]))
			w = string(r[width:])
		}
		if cur.Len() > 0 && len([]rune(cur.String()))+1+len([]rune(w)) > width {
			out = append(out, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

// PrintSeedSummary outputs the records written by a seeding run.
func (p *Printer) PrintSeedSummary(c *seed.Summary) {
	if c == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Users:      %d\n", c.Users))
	sb.WriteString(fmt.Sprintf("Products:   %d\n", c.Products))
	sb.WriteString(fmt.Sprintf("Documents:  %d\n", c.Documents))
	sb.WriteString(fmt.Sprintf("Partners:   %d", c.Partners))
	p.printBox("SEED SUMMARY", sb.String())
}

// PrintAnswer outputs an assistant reply and where it came from.
func (p *Printer) PrintAnswer(question string, resp *types.AskResponse) {
	if resp == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Q: %s\n\n", textutil.Truncate(question, 200)))
	sb.WriteString(resp.Reply)
	sb.WriteString(fmt.Sprintf("\n\n(source: %s)", resp.Source))
	p.printBox("TRADE ASSISTANT", sb.String())
}

// PrintFAQ outputs the first few frequently asked questions.
func (p *Printer) PrintFAQ(faq []types.FAQ) {
	if len(faq) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(faq), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("• %s\n", faq[i].Question))
	}
	if len(faq) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(faq)-maxItemsToShow))
	}
	p.printBox("FREQUENTLY ASKED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintOverview outputs the overview tiles and the latest value of each
// series.
func (p *Printer) PrintOverview(o types.Overview) {
	if len(o.Tiles) == 0 && len(o.Series) == 0 {
		return
	}

	var sb strings.Builder
	for _, t := range o.Tiles {
		text := t.Text
		if text == "" {
			text = fmt.Sprintf("%d", t.Value)
		}
		sb.WriteString(fmt.Sprintf("%-20s %8s", t.Label, text))
		if t.Change != "" {
			sb.WriteString(fmt.Sprintf("  %s", t.Change))
		}
		sb.WriteString("\n")
	}

	names := make([]string, 0, len(o.Series))
	for name := range o.Series {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > 0 {
		sb.WriteString("\n")
	}
	for _, name := range names {
		points := o.Series[name]
		if len(points) == 0 {
			continue
		}
		last := points[len(points)-1]
		sb.WriteString(fmt.Sprintf("%-12s %s: %g\n", name, last.Month, last.Value))
	}

	p.printBox("OVERVIEW", strings.TrimSuffix(sb.String(), "\n"))
}
