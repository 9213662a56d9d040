package workflow

import "context"

// GuideCreation produces the educational guide creation payload. Unlike the
// marketing workflow, clinical and research material is in scope, with
// citation accuracy treated as the dominant constraint.
func (a *Assembler) GuideCreation(ctx context.Context, params Params) string {
	p := newPayload("Aletha Health Guide Creation")

	preface := "You are writing an educational guide for Aletha Health. Guides teach " +
		"users about the body, pain relief, and correct product use; accuracy against " +
		"the knowledge base matters more than persuasion."
	if params.Topic != "" {
		preface += "\n\nGuide topic: " + params.Topic
	}
	if params.Subtype != "" {
		preface += "\nGuide type: " + params.Subtype
	}
	p.add("Your Role", preface)

	a.corrections(ctx, p)
	a.loadedContext(ctx, p)

	p.addSteps("Process",
		"Read the preloaded brand and product documents in full.",
		"Search the knowledge base for Clinical & Research documents covering the guide topic and read them before writing any claim about the body or pain.",
		"Outline the guide: what the reader will learn, the steps or concepts, and where each product fits.",
		"Draft the guide, citing Clinical & Research documents for every clinical statement and pulling product instructions only from SOURCE OF TRUTH documents.",
		"Check the draft against the compliance checklist below, item by item, and deliver it with your per-item confirmation.",
	)

	roleScope(p,
		[]string{"Brand & Marketing", "Clinical & Research", "Product Documentation", "Personas & Journeys"},
		nil,
	)

	p.addList("Compliance Checklist (confirm each item explicitly in your output)",
		"Every clinical or anatomical claim cites a specific Clinical & Research document, accurately and without paraphrase.",
		`Product names use the exact approved spellings: "Hip Hook", "Range", "Nuckle", "Mark".`,
		"Product usage instructions match the Product Documentation exactly.",
		"The medical disclaimer is present.",
		"Tone follows the brand voice document.",
	)

	p.addList("Reminders",
		"Never fabricate or stretch a citation; if no document supports a claim, drop the claim.",
		"Product instructions come from SOURCE OF TRUTH documents only.",
		"Include the medical disclaimer.",
		"Brand guidelines still apply to every sentence.",
	)

	return p.String()
}
