package session

import (
	"fmt"
	"io"
	"strings"

	markdown "github.com/MichaelMure/go-term-markdown"
	"github.com/charmbracelet/lipgloss"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"ochat/model"
)

const defaultMarkdownWidth = 100

var (
	accentColor = lipgloss.Color("12")
	dimColor    = lipgloss.Color("7")
	dangerColor = lipgloss.Color("9")
)

// styles are bound to the output writer so nothing but plain text is
// written when it is not a terminal.
type styles struct {
	assistant lipgloss.Style
	dim       lipgloss.Style
	err       lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		assistant: r.NewStyle().Foreground(accentColor).Bold(true),
		dim:       r.NewStyle().Foreground(dimColor),
		err:       r.NewStyle().Foreground(dangerColor),
	}
}

func (s *Session) printReply(msg model.Message) {
	content := msg.Content
	if s.opts.RenderMarkdown {
		content = renderMarkdown(content, s.opts.MarkdownWidth)
	}
	fmt.Fprintf(s.out, "\n%s %s\n\n", s.styles.assistant.Render(assistantTag), content)
}

func (s *Session) printError(text string) {
	fmt.Fprintln(s.out, s.styles.err.Render(text))
}

// renderMarkdown formats content for the terminal. Autolink is off so plain
// URLs stay plain and the terminal can make them clickable.
func renderMarkdown(content string, width int) string {
	p := parser.NewWithExtensions(markdown.Extensions() &^ parser.Autolink)
	r := markdown.NewRenderer(width, 0)
	doc := p.Parse([]byte(content))
	return strings.TrimRight(string(gomarkdown.Render(doc, r)), "\n")
}
