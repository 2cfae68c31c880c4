package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/concourse/ond-art-validator/annotate"
	"github.com/concourse/ond-art-validator/config"
	"github.com/concourse/ond-art-validator/invariant"
	"github.com/concourse/ond-art-validator/schema"
)

// displayCap limits how many findings the summary shows per document. The
// truncation is presentation-only; pass/fail always uses the full list.
const displayCap = 25

// Runner drives the per-document pipeline (parse, default injection, schema
// conformance, invariant battery) across a batch and folds the outcomes into
// one Result. Documents are processed synchronously in the order given, so
// output is byte-stable across identical runs.
type Runner struct {
	Config    *config.Config
	Checker   *schema.Checker
	Annotator *annotate.Annotator
	Summary   *annotate.Summary
	Log       logrus.FieldLogger
}

// Run validates every file and returns the batch result. An empty batch
// passes with an explicit notice: absence of input is not a failure.
func (r *Runner) Run(files []string) Result {
	if len(files) == 0 {
		r.Annotator.Infof("No report files found for glob: %s", r.Config.ReportGlob)
		r.summaryLine("⚠️ No report files found; nothing to validate.")
		return Result{OK: true}
	}

	r.writeSummaryHeader()

	result := Result{OK: true}
	for _, file := range files {
		doc := r.validateFile(file)
		result.Documents = append(result.Documents, doc)
		if doc.Outcome.Passed() {
			result.Passed++
		} else {
			result.Failed++
			result.OK = false
		}
	}

	r.Log.WithFields(logrus.Fields{
		"checked": len(result.Documents),
		"passed":  result.Passed,
		"failed":  result.Failed,
	}).Info("validation run complete")
	return result
}

func (r *Runner) validateFile(file string) DocumentResult {
	result := DocumentResult{File: file, Outcome: OutcomePass}

	data, err := os.ReadFile(file)
	var raw any
	if err == nil {
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		result.Outcome = OutcomeInvalidJSON
		result.ParseError = err.Error()
		r.Annotator.Error(file, fmt.Sprintf("Invalid JSON: %v", err))
		r.summaryLine(fmt.Sprintf("## ❌ `%s`", file))
		r.summaryLine(fmt.Sprintf("- Invalid JSON: %v", err))
		r.summaryLine("")
		return result
	}

	schema.InjectDefaultProfile(raw, r.Config.DefaultProfile)

	if structural := r.Checker.Check(raw); len(structural) > 0 {
		result.Outcome = OutcomeSchemaFail
		result.SchemaErrors = structural
		r.emitSchemaErrors(file, structural)
		return result
	}

	report, err := schema.Decode(raw)
	if err != nil {
		// Conformant JSON that cannot map onto the typed model; surface it
		// as a structural failure rather than crashing the batch.
		result.Outcome = OutcomeSchemaFail
		result.SchemaErrors = []schema.StructuralError{{Path: "/", Message: err.Error()}}
		r.emitSchemaErrors(file, result.SchemaErrors)
		return result
	}

	validator := invariant.Validator{
		Forbid:               r.Config.Forbid,
		StrictClassification: r.Config.StrictClassification,
		RequireDisclaimer:    r.Config.RequireDisclaimer,
	}
	result.Errors, result.Warnings = validator.Validate(report)

	if len(result.Errors) > 0 {
		result.Outcome = OutcomeInvariantFail
		r.Annotator.Group(fmt.Sprintf("Extra invariant errors in %s", file))
		for _, f := range result.Errors {
			r.Annotator.Error(file, f.Message)
		}
		r.Annotator.EndGroup()

		r.summaryLine(fmt.Sprintf("## ❌ `%s`", file))
		for i, f := range result.Errors {
			if i == displayCap {
				break
			}
			r.summaryLine(fmt.Sprintf("- %s", f.Message))
		}
		if n := len(result.Errors) - displayCap; n > 0 {
			r.summaryLine(fmt.Sprintf("- …and %d more", n))
		}
		r.summaryLine("")
		return result
	}

	if len(result.Warnings) > 0 {
		r.Annotator.Group(fmt.Sprintf("Extra invariant warnings in %s", file))
		for _, f := range result.Warnings {
			r.Annotator.Warning(file, f.Message)
		}
		r.Annotator.EndGroup()
	}

	r.Annotator.Infof("✅ %s: OK (schema + invariants)", file)
	r.summaryLine(fmt.Sprintf("## ✅ `%s`", file))
	r.summaryLine("- Schema OK")
	r.summaryLine("- Extra invariants OK")
	r.summaryLine("")
	return result
}

func (r *Runner) emitSchemaErrors(file string, structural []schema.StructuralError) {
	r.Annotator.Group(fmt.Sprintf("Schema errors in %s", file))
	for _, e := range structural {
		r.Annotator.Error(file, fmt.Sprintf("%s: %s", e.Path, e.Message))
	}
	r.Annotator.EndGroup()

	r.summaryLine(fmt.Sprintf("## ❌ `%s`", file))
	for i, e := range structural {
		if i == displayCap {
			break
		}
		r.summaryLine(fmt.Sprintf("- `%s`: %s", e.Path, e.Message))
	}
	if n := len(structural) - displayCap; n > 0 {
		r.summaryLine(fmt.Sprintf("- …and %d more", n))
	}
	r.summaryLine("")
}

func (r *Runner) writeSummaryHeader() {
	cfg := r.Config
	r.summaryLine("# OND-ART validation")
	r.summaryLine(fmt.Sprintf("- Schema: `%s`", cfg.SchemaPath))
	r.summaryLine(fmt.Sprintf("- Reports glob: `%s`", cfg.ReportGlob))
	r.summaryLine(fmt.Sprintf("- DEFAULT_PROFILE (if missing): `%s`", cfg.DefaultProfile))
	r.summaryLine(fmt.Sprintf("- STRICT_CLASSIFICATION: `%s`", flag(cfg.StrictClassification)))
	r.summaryLine(fmt.Sprintf("- REQUIRE_DISCLAIMER: `%s`", flag(cfg.RequireDisclaimer)))
	if len(cfg.Forbid) > 0 {
		r.summaryLine(fmt.Sprintf("- Forbidden baseline.classification: `%s`", strings.Join(cfg.Forbid, ", ")))
	}
	r.summaryLine("")
}

// summaryLine appends one line to the run summary; write failures are logged
// but never fail a document.
func (r *Runner) summaryLine(line string) {
	if err := r.Summary.WriteLine(line); err != nil {
		r.Log.WithError(err).Warn("writing step summary")
	}
}

func flag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}
