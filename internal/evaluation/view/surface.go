// internal/evaluation/view/surface.go
package view

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"partner-evaluator/pkg/registry"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	glyphFilled   = "★"
	glyphEmpty    = "☆"
	barCells      = 20
	documentTitle = "Partner Evaluation"
	loadingText   = "Evaluating..."
)

// WriteText prints the surface for a terminal.
func WriteText(w io.Writer, s Snapshot) error {
	var b strings.Builder
	if s.LoadingVisible {
		b.WriteString(loadingText + "\n")
	}
	if s.ErrorVisible {
		fmt.Fprintf(&b, "Error: %s\n", s.ErrorMessage)
	}
	if s.ResultVisible {
		for _, sec := range s.Sections {
			if !s.Rendered(sec.ID) {
				continue
			}
			fmt.Fprintf(&b, "\n%s\n%s\n", sec.Title, strings.Repeat("-", len([]rune(sec.Title))))
			for _, r := range s.RegionsIn(sec.ID) {
				if r.Rendered {
					writeTextRegion(&b, r)
				}
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeTextRegion(b *strings.Builder, r Region) {
	switch r.Kind {
	case registry.KindScore:
		filled := int(math.Round(r.Width / 100 * barCells))
		filled = max(0, min(filled, barCells))
		fmt.Fprintf(b, "%-26s [%s%s] %s\n", r.Label+":", strings.Repeat("#", filled), strings.Repeat(".", barCells-filled), r.Text)
	case registry.KindTags:
		fmt.Fprintf(b, "%-26s %s\n", r.Label+":", strings.Join(bracketed(r.Items), " "))
	case registry.KindList:
		fmt.Fprintf(b, "%s:\n", r.Label)
		for _, item := range r.Items {
			fmt.Fprintf(b, "  - %s\n", item)
		}
	case registry.KindStars:
		fmt.Fprintf(b, "%-26s %s\n", r.Label+":", stars(r))
	default:
		fmt.Fprintf(b, "%-26s %s\n", r.Label+":", r.Text)
	}
}

// WriteMarkdown prints the surface as GitHub-flavoured markdown.
func WriteMarkdown(w io.Writer, s Snapshot) error {
	_, err := io.WriteString(w, markdown(s))
	return err
}

// WriteHTML renders the markdown surface to an HTML fragment.
func WriteHTML(w io.Writer, s Snapshot) error {
	var buf bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown(s)), &buf); err != nil {
		return fmt.Errorf("markdown convert: %w", err)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func markdown(s Snapshot) string {
	var b strings.Builder
	b.WriteString("# " + documentTitle + "\n\n")
	if s.LoadingVisible {
		b.WriteString("_" + loadingText + "_\n\n")
	}
	if s.ErrorVisible {
		fmt.Fprintf(&b, "> **Error:** %s\n\n", escapeMarkdown(s.ErrorMessage))
	}
	if !s.ResultVisible {
		return b.String()
	}
	for _, sec := range s.Sections {
		if !s.Rendered(sec.ID) {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", escapeMarkdown(sec.Title))
		for _, r := range s.RegionsIn(sec.ID) {
			if r.Rendered {
				writeMarkdownRegion(&b, r)
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func writeMarkdownRegion(b *strings.Builder, r Region) {
	label := "**" + escapeMarkdown(r.Label) + ":**"
	switch r.Kind {
	case registry.KindTags:
		items := make([]string, len(r.Items))
		for i, item := range r.Items {
			items[i] = escapeMarkdown(item)
		}
		fmt.Fprintf(b, "- %s %s\n", label, strings.Join(items, ", "))
	case registry.KindList:
		fmt.Fprintf(b, "- %s\n", label)
		for _, item := range r.Items {
			fmt.Fprintf(b, "  - %s\n", escapeMarkdown(item))
		}
	case registry.KindStars:
		fmt.Fprintf(b, "- %s %s\n", label, stars(r))
	default:
		fmt.Fprintf(b, "- %s %s\n", label, escapeMarkdown(r.Text))
	}
}

func stars(r Region) string {
	var b strings.Builder
	for _, filled := range r.Stars {
		if filled {
			b.WriteString(glyphFilled)
		} else {
			b.WriteString(glyphEmpty)
		}
	}
	return b.String()
}

func bracketed(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "[" + item + "]"
	}
	return out
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", `*`, `\*`, `_`, `\_`, `[`, `\[`, `]`, `\]`,
	`<`, `&lt;`, `>`, `&gt;`, `#`, `\#`, `|`, `\|`, "\n", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
