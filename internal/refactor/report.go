package refactor

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"bladesplit/internal/fileops"
)

// Step names one stage of the refactor plan.
type Step string

const (
	StepExtract    Step = "extract"
	StepStragglers Step = "stragglers"
	StepGaps       Step = "gaps"
	StepCompose    Step = "compose"
)

// AllSteps is the plan order used by Run when no steps are given.
var AllSteps = []Step{StepExtract, StepStragglers, StepGaps, StepCompose}

// ParseStep validates a step name.
func ParseStep(s string) (Step, error) {
	for _, st := range AllSteps {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown step %q (valid: %v)", s, AllSteps)
}

// Outcome is one unit of work inside a step: a section extracted, a gap
// recovered, a document composed, or a failure of one of those.
type Outcome struct {
	Step   Step   `yaml:"step"`
	Target string `yaml:"target,omitempty"`
	Path   string `yaml:"path,omitempty"`
	OK     bool   `yaml:"ok"`
	Detail string `yaml:"detail,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// Report records a run.
type Report struct {
	RunID     string    `yaml:"run_id"`
	StartedAt time.Time `yaml:"started_at"`
	DryRun    bool      `yaml:"dry_run"`
	Outcomes  []Outcome `yaml:"outcomes"`
	Outputs   []Output  `yaml:"outputs,omitempty"`
	Written   []string  `yaml:"written,omitempty"`
}

// Output is one file a run wrote, or would have written in a dry run.
// Equal digests mean a dry run and the real run produce the same bytes.
type Output struct {
	Path   string `yaml:"path"`
	Bytes  int    `yaml:"bytes"`
	Digest string `yaml:"blake2b"`
}

func newOutput(path, content string) Output {
	sum := blake2b.Sum256([]byte(content))
	return Output{Path: path, Bytes: len(content), Digest: hex.EncodeToString(sum[:])}
}

func newReport(dryRun bool, now time.Time) *Report {
	return &Report{
		RunID:     uuid.New().String(),
		StartedAt: now.UTC(),
		DryRun:    dryRun,
	}
}

// Failures counts failed outcomes.
func (r *Report) Failures() int {
	n := 0
	for _, o := range r.Outcomes {
		if !o.OK {
			n++
		}
	}
	return n
}

// Succeeded counts successful outcomes of one step.
func (r *Report) Succeeded(step Step) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.OK && o.Step == step {
			n++
		}
	}
	return n
}

// Save writes the report as YAML.
func (r *Report) Save(path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return fileops.WriteDocument(path, string(data))
}
