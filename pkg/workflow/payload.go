package workflow

import (
	"strconv"
	"strings"
)

// payload is the structured intermediate representation of a workflow's
// instructional message. Workflow logic appends sections; text only exists
// after the final String call, which keeps assembly testable independent of
// exact wording.
type payload struct {
	title    string
	sections []section
}

type section struct {
	heading string
	body    []string
}

func newPayload(title string) *payload {
	return &payload{title: title}
}

// add appends a section. Empty bodies are dropped at serialization time.
func (p *payload) add(heading string, body ...string) *payload {
	p.sections = append(p.sections, section{heading: heading, body: body})

	return p
}

// addList appends a section whose body is a bullet list.
func (p *payload) addList(heading string, items ...string) *payload {
	bullets := make([]string, len(items))
	for i, item := range items {
		bullets[i] = "- " + item
	}

	return p.add(heading, strings.Join(bullets, "\n"))
}

// addSteps appends a section whose body is a numbered list.
func (p *payload) addSteps(heading string, steps ...string) *payload {
	lines := make([]string, len(steps))
	for i, step := range steps {
		lines[i] = strconv.Itoa(i+1) + ". " + step
	}

	return p.add(heading, strings.Join(lines, "\n"))
}

func (p *payload) String() string {
	var b strings.Builder

	b.WriteString("# " + p.title + "\n")

	for _, s := range p.sections {
		body := strings.TrimSpace(strings.Join(s.body, "\n\n"))
		if body == "" {
			continue
		}

		b.WriteString("\n## " + s.heading + "\n\n")
		b.WriteString(body + "\n")
	}

	return b.String()
}

