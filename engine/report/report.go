package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// ShapeVersion pins the structured report shape. Bump it when fields are
// renamed or categories change so consumers never see silent drift.
const ShapeVersion = "v1"

// ErrMalformedPayload indicates the model call succeeded but its content does
// not match the structured report shape. It is deliberately distinct from an
// invocation failure so the two are distinguishable in logs and telemetry.
var ErrMalformedPayload = errors.New("report: model output does not match the structured report shape")

// TaskBreakdown groups task narratives by state.
type TaskBreakdown struct {
	Completed  string `json:"completed"`
	InProgress string `json:"inProgress"`
	InReview   string `json:"inReview"`
}

// Report is the fixed-shape final output of a summarization run.
type Report struct {
	Summary                  string        `json:"summary"`
	RiskBlockersActionNeeded string        `json:"riskBlockersActionNeeded"`
	Tasks                    TaskBreakdown `json:"tasks"`
}

// Parse decodes raw model output into a Report. Models wrap JSON in markdown
// fences or prose often enough that the payload is located first; the decode
// itself is strict. Any shape mismatch returns ErrMalformedPayload.
func Parse(raw string) (*Report, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("%w: no JSON object found in output", ErrMalformedPayload)
	}
	if !gjson.Get(payload, "summary").Exists() {
		return nil, fmt.Errorf("%w: missing required field %q", ErrMalformedPayload, "summary")
	}
	report := &Report{}
	if err := json.Unmarshal([]byte(payload), report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if strings.TrimSpace(report.Summary) == "" {
		return nil, fmt.Errorf("%w: field %q is empty", ErrMalformedPayload, "summary")
	}
	return report, nil
}

// Replacements maps the report into the flat placeholder set consumed by the
// document publisher.
func (r *Report) Replacements() map[string]string {
	return map[string]string{
		"summary":                  r.Summary,
		"riskBlockersActionNeeded": r.RiskBlockersActionNeeded,
		"tasksCompleted":           r.Tasks.Completed,
		"tasksInProgress":          r.Tasks.InProgress,
		"tasksInReview":            r.Tasks.InReview,
	}
}

// extractJSON locates the outermost JSON object in the raw output, stripping
// markdown fences and surrounding prose.
func extractJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if fenced, ok := stripFences(trimmed); ok {
		trimmed = fenced
	}
	if gjson.Valid(trimmed) && strings.HasPrefix(trimmed, "{") {
		return trimmed
	}
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end <= start {
		return ""
	}
	candidate := trimmed[start : end+1]
	if !gjson.Valid(candidate) {
		return ""
	}
	return candidate
}

func stripFences(s string) (string, bool) {
	if !strings.HasPrefix(s, "```") {
		return s, false
	}
	body := strings.TrimPrefix(s, "```json")
	body = strings.TrimPrefix(body, "```")
	body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	return strings.TrimSpace(body), true
}
