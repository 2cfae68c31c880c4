package batch

import (
	"fmt"

	"github.com/concourse/ond-art-validator/invariant"
	"github.com/concourse/ond-art-validator/schema"
)

// Outcome represents how a single document fared.
type Outcome string

const (
	OutcomePass          Outcome = "pass"
	OutcomeInvalidJSON   Outcome = "invalid-json"
	OutcomeSchemaFail    Outcome = "schema-fail"
	OutcomeInvariantFail Outcome = "invariant-fail"
)

var validOutcomes = map[Outcome]bool{
	OutcomePass:          true,
	OutcomeInvalidJSON:   true,
	OutcomeSchemaFail:    true,
	OutcomeInvariantFail: true,
}

// Validate checks that the outcome is a known value.
func (o Outcome) Validate() error {
	if !validOutcomes[o] {
		return fmt.Errorf("invalid outcome %q: must be one of pass, invalid-json, schema-fail, invariant-fail", o)
	}
	return nil
}

// Passed reports whether the outcome counts as a passing document.
func (o Outcome) Passed() bool {
	return o == OutcomePass
}

// DocumentResult is the full record of one document's validation. Exactly
// one failure surface is populated, matching the outcome.
type DocumentResult struct {
	File         string
	Outcome      Outcome
	ParseError   string
	SchemaErrors []schema.StructuralError
	Errors       []invariant.Finding
	Warnings     []invariant.Finding
}

// Result aggregates a whole run. Immutable once Run returns. Warnings never
// affect OK; an empty batch is OK.
type Result struct {
	Documents []DocumentResult
	Passed    int
	Failed    int
	OK        bool
}
