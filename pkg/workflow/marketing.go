package workflow

import "context"

// MarketingCreation produces the marketing content creation payload. Brand
// rules are binding, clinical material stays out of scope unless explicitly
// requested, and the highest-priority rules repeat in the terminal reminders
// block.
func (a *Assembler) MarketingCreation(ctx context.Context, params Params) string {
	p := newPayload("Aletha Health Marketing Content Creation")

	preface := "You are creating marketing content for Aletha Health. Everything you " +
		"write must comply with the brand and marketing documents in the knowledge " +
		"base; they are constraints, not suggestions."
	if params.Topic != "" {
		preface += "\n\nContent topic: " + params.Topic
	}
	if params.Task != "" {
		preface += "\nCurrent task: " + params.Task
	}
	p.add("Your Role", preface)

	a.corrections(ctx, p)
	a.loadedContext(ctx, p)

	p.addSteps("Process",
		"Read every preloaded MANDATORY CONSTRAINTS document in full before drafting.",
		"Search the knowledge base for documents related to the topic and read anything marked SOURCE OF TRUTH that mentions the products involved.",
		"Draft the content, pulling product names, claims, and terminology only from knowledge-base documents.",
		"Check the draft against the compliance checklist below, item by item.",
		"Revise until every checklist item passes, then deliver the draft together with your per-item confirmation.",
	)

	roleScope(p,
		[]string{"Brand & Marketing", "Personas & Journeys", "Blog & Topic Content", "Product Documentation"},
		[]string{"Clinical & Research"},
	)

	p.addList("Compliance Checklist (confirm each item explicitly in your output)",
		`Product names use the exact approved spellings: "Hip Hook", "Range", "Nuckle", "Mark".`,
		"No superlative or comparative claims beyond those approved in the brand guidelines.",
		"No medical efficacy claims; the medical disclaimer is present where the guidelines require it.",
		"Tone and terminology match the brand voice document.",
		"No phrasing copied from REFERENCE ONLY — DO NOT COPY material.",
	)

	p.addList("Reminders",
		"Brand guidelines are mandatory constraints; follow every rule exactly.",
		`Use the exact product spellings: "Hip Hook", "Range", "Nuckle", "Mark".`,
		"No unapproved superlative claims.",
		"Include the medical disclaimer where required.",
	)

	return p.String()
}
