// Package convert renders raw document bytes into one of the assistant-facing
// output formats. Backend-native conversions (e.g. exporting a cloud document
// as HTML) happen in the repository driver; this package handles the final
// hop from the fetched bytes to the caller's requested format.
package convert

import (
	"fmt"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

// Format is an assistant-facing output format.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat validates a caller-supplied format string.
// An empty string defaults to markdown.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatMarkdown, nil
	case FormatText, FormatMarkdown, FormatHTML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported format %q (want text, markdown, or html)", s)
	}
}

// Converter renders document bytes of a given MIME type into a target format.
type Converter interface {
	Convert(data []byte, sourceMime string, target Format) (string, error)
}

// New creates the default converter, backed by html-to-markdown with
// GitHub-flavored output.
func New() Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &defaultConverter{markdown: converter}
}

type defaultConverter struct {
	markdown *md.Converter
}

func (c *defaultConverter) Convert(data []byte, sourceMime string, target Format) (string, error) {
	isHTML := strings.HasPrefix(sourceMime, "text/html")

	switch target {
	case FormatHTML:
		// Non-HTML sources pass through; the backend owns richer conversions.
		return string(data), nil

	case FormatMarkdown:
		if !isHTML {
			return string(data), nil
		}
		out, err := c.markdown.ConvertString(string(data))
		if err != nil {
			return "", fmt.Errorf("converting html to markdown: %w", err)
		}
		return out, nil

	case FormatText:
		if !isHTML {
			return string(data), nil
		}
		return extractText(data)

	default:
		return "", fmt.Errorf("unsupported format %q", target)
	}
}

// extractText flattens an HTML document into plain text, dropping markup,
// scripts, and styles.
func extractText(data []byte) (string, error) {
	doc, err := html.Parse(strings.NewReader(string(data)))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 {
					b.WriteString("\n")
				}
				b.WriteString(text)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return b.String(), nil
}
