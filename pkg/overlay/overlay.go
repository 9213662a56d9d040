// Package overlay parses the corrections document: free-text clarifications
// that accompany document content, either globally or scoped to one catalog
// category. Overlay text is advisory context for the assistant; it never
// modifies document content.
package overlay

import (
	"regexp"
	"strings"
)

// globalSection is the case-insensitive name of the section that applies to
// every document.
const globalSection = "global"

var headerRe = regexp.MustCompile(`^##\s+(.+?)\s*$`)

// Overlay is the parsed corrections document.
type Overlay struct {
	global   string
	sections map[string]string
	order    []string
}

// Parse scans "## Section" headers and accumulates body text until the next
// header. Empty sections are dropped. A section literally named "Global"
// (any case) lands in the dedicated global slot; every other section name is
// a category key. Text before the first header is ignored.
func Parse(source string) *Overlay {
	o := &Overlay{sections: make(map[string]string)}

	current := ""
	var body []string

	flush := func() {
		if current == "" {
			return
		}
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text == "" {
			return
		}
		if strings.EqualFold(current, globalSection) {
			o.global = text
			return
		}
		if _, seen := o.sections[current]; !seen {
			o.order = append(o.order, current)
		}
		o.sections[current] = text
	}

	for _, line := range strings.Split(source, "\n") {
		if m := headerRe.FindStringSubmatch(line); m != nil {
			flush()
			current = m[1]
			body = body[:0]
			continue
		}
		body = append(body, line)
	}
	flush()

	return o
}

// Global returns the global correction block, or "" if none.
func (o *Overlay) Global() string {
	return o.global
}

// Section returns the correction block for one category.
func (o *Overlay) Section(category string) (string, bool) {
	text, ok := o.sections[category]
	return text, ok
}

// ForCategory concatenates the applicable blocks for a document of the given
// category: the global block first, then the category block, each labeled.
// Returns "" when neither applies. An empty category selects only the global
// block, so uncataloged documents still receive global corrections.
func (o *Overlay) ForCategory(category string) string {
	var parts []string

	if o.global != "" {
		parts = append(parts, "General corrections:\n"+o.global)
	}
	if category != "" {
		if text, ok := o.sections[category]; ok {
			parts = append(parts, "Corrections for "+category+":\n"+text)
		}
	}

	return strings.Join(parts, "\n\n")
}

// Full concatenates every block for upfront bulk injection: global first,
// then categories in the given order, then any parsed section whose name is
// not in the order (unknown sections are preserved here even though
// ForCategory never surfaces them).
func (o *Overlay) Full(categoryOrder []string) string {
	var parts []string

	if o.global != "" {
		parts = append(parts, "General corrections:\n"+o.global)
	}

	emitted := make(map[string]bool)
	for _, category := range categoryOrder {
		if text, ok := o.sections[category]; ok {
			parts = append(parts, "Corrections for "+category+":\n"+text)
			emitted[category] = true
		}
	}
	for _, category := range o.order {
		if !emitted[category] {
			parts = append(parts, "Corrections for "+category+":\n"+o.sections[category])
		}
	}

	return strings.Join(parts, "\n\n")
}

// Empty reports whether the overlay has no content at all.
func (o *Overlay) Empty() bool {
	return o.global == "" && len(o.sections) == 0
}
