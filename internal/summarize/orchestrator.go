package summarize

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Summary is one template's generated minutes text.
type Summary struct {
	Template TemplateSpec
	Text     string
}

// Orchestrator fans the corrected transcript out to every template and joins
// the results. Templates have no data dependency on each other, so generation
// calls run concurrently; total latency is bounded by the slowest call.
type Orchestrator struct {
	engine    Engine
	templates []TemplateSpec
}

// NewOrchestrator wires the generation engine to a fixed template table.
func NewOrchestrator(engine Engine, templates []TemplateSpec) *Orchestrator {
	return &Orchestrator{engine: engine, templates: templates}
}

// Run generates one summary per template. Every template is attempted, but a
// single failure aborts the run: remaining calls are cancelled, sibling
// results are discarded, and a *TemplateError naming the failed template is
// returned. Summaries come back in template order only when all succeed.
func (o *Orchestrator) Run(ctx context.Context, transcript string) ([]Summary, error) {
	g, ctx := errgroup.WithContext(ctx)
	summaries := make([]Summary, len(o.templates))

	for i, tpl := range o.templates {
		g.Go(func() error {
			text, err := o.engine.Generate(ctx, tpl.BuildPrompt(transcript))
			if err != nil {
				return &TemplateError{Template: tpl.Name, Err: err}
			}
			summaries[i] = Summary{Template: tpl, Text: text}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
