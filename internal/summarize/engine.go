package summarize

import "context"

// Engine generates one minutes summary from a prepared instruction.
type Engine interface {
	Generate(ctx context.Context, instruction string) (string, error)
}

// TemplateError reports which template's generation call failed. A single
// failing template aborts the whole run.
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return "summarization failed for " + e.Template + ": " + e.Err.Error()
}

func (e *TemplateError) Unwrap() error { return e.Err }
