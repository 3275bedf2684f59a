package summarize

import (
	"strings"

	"github.com/compozy/standup-digest/engine/core"
	"github.com/tmc/langchaingo/prompts"
)

const systemPrompt = "You are an engineering program assistant producing concise, factual project status updates."

const mapTemplate = `Summarize the following standup messages and issue activity for a project status update.
Keep owner names, blockers, and the state of every task (completed, in progress, in review).

{{.context}}

CONCISE SUMMARY:`

const collapseTemplate = `Combine the following partial summaries into one shorter summary.
Preserve owner names, blockers, and task states. Do not introduce information that is not present in the input.

{{.context}}

COMBINED SUMMARY:`

const finalTemplate = `Write a project status report from the summaries below.
Respond with a single JSON object and nothing else, using exactly this shape:
{"summary": "<narrative status>", "riskBlockersActionNeeded": "<risks, blockers, and actions needed>", "tasks": {"completed": "<completed work>", "inProgress": "<in-progress work>", "inReview": "<work in review>"}}

{{.context}}`

var (
	mapPrompt      = prompts.NewPromptTemplate(mapTemplate, []string{"context"})
	collapsePrompt = prompts.NewPromptTemplate(collapseTemplate, []string{"context"})
	finalPrompt    = prompts.NewPromptTemplate(finalTemplate, []string{"context"})
)

// formatPrompt fills a template's context slot with the documents' content in
// input order.
func formatPrompt(template prompts.PromptTemplate, docs []core.Document) (string, error) {
	contents := make([]string, len(docs))
	for i := range docs {
		contents[i] = docs[i].Content
	}
	return template.Format(map[string]any{
		"context": strings.Join(contents, "\n\n"),
	})
}
