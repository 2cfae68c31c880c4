package invariant

import (
	"fmt"
	"strings"

	"github.com/concourse/ond-art-validator/schema"
)

// DisclaimerText is the diagnostic disclaimer every report's notes should
// carry. Matched case-insensitively as a substring.
const DisclaimerText = "Diagnostic only; no security claim."

// The classification labels bound by the baseline contract. Any other label
// is accepted without consistency checking, even in strict mode.
const (
	ClassificationWithinEnvelope  = "Within Baseline Envelope"
	ClassificationDeviating       = "Deviating"
	ClassificationStrongDeviation = "Strong Deviation"
)

// DefaultForbidden returns the default set of classification labels that are
// always errors.
func DefaultForbidden() []string {
	return []string{ClassificationStrongDeviation}
}

// Validator runs the invariant battery against one structurally valid
// report. Checks are independent and never short-circuit each other, so one
// run surfaces every defect in a document at once.
type Validator struct {
	// Forbid lists classification labels that fail the document outright.
	Forbid []string
	// StrictClassification enables the classification-vs-threshold
	// consistency check.
	StrictClassification bool
	// RequireDisclaimer escalates a missing disclaimer from warning to error.
	RequireDisclaimer bool
}

// Validate returns the document's errors and warnings, each in check order.
// A document with one or more errors fails regardless of warnings.
func (v Validator) Validate(r *schema.Report) (errs, warns []Finding) {
	errs = appendFinding(errs, v.checkCounts(r))
	errs = append(errs, v.checkIntervalOrder(r)...)
	errs = append(errs, v.checkEstimatesInCI(r)...)
	errs = appendFinding(errs, v.checkThresholds(r))
	errs = appendFinding(errs, v.checkForbidden(r))
	errs = append(errs, v.checkClassificationConsistency(r)...)

	if f := v.checkDisclaimer(r); f != nil {
		if f.Severity == SeverityError {
			errs = append(errs, *f)
		} else {
			warns = append(warns, *f)
		}
	}
	return errs, warns
}

func appendFinding(findings []Finding, f *Finding) []Finding {
	if f == nil {
		return findings
	}
	return append(findings, *f)
}

// checkCounts requires data.invalid_count <= data.N when both counts are
// present and non-negative.
func (v Validator) checkCounts(r *schema.Report) *Finding {
	if r.Data == nil || r.Data.N == nil || r.Data.InvalidCount == nil {
		return nil
	}
	n, invalid := *r.Data.N, *r.Data.InvalidCount
	if n < 0 || invalid < 0 {
		return nil
	}
	if invalid > n {
		return &Finding{
			Severity: SeverityError,
			Path:     "data.invalid_count",
			Message:  fmt.Sprintf("data.invalid_count (%d) > data.N (%d)", invalid, n),
		}
	}
	return nil
}

// namedInterval pairs a CI with the field path it was read from.
type namedInterval struct {
	path string
	ci   []float64
}

func reportIntervals(r *schema.Report) []namedInterval {
	var out []namedInterval
	if r.Metrics != nil {
		if r.Metrics.Rank != nil {
			out = append(out, namedInterval{"metrics.rank.ci95", r.Metrics.Rank.CI95})
		}
		if r.Metrics.Subspace != nil {
			out = append(out, namedInterval{"metrics.subspace.ci95", r.Metrics.Subspace.CI95})
		}
		if r.Metrics.Branching != nil {
			out = append(out, namedInterval{"metrics.branching.ci95", r.Metrics.Branching.CI95})
		}
	}
	if r.Baseline != nil && r.Baseline.DistanceCI95 != nil {
		out = append(out, namedInterval{"baseline.distance_ci95", r.Baseline.DistanceCI95})
	}
	return out
}

// checkIntervalOrder applies the ordering primitive to every named CI.
func (v Validator) checkIntervalOrder(r *schema.Report) []Finding {
	var findings []Finding
	for _, ni := range reportIntervals(r) {
		if len(ni.ci) != 2 {
			continue
		}
		if !IntervalOrdered(ni.ci[0], ni.ci[1]) {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Path:     ni.path,
				Message:  fmt.Sprintf("%s invalid: low (%v) > high (%v)", ni.path, ni.ci[0], ni.ci[1]),
			})
		}
	}
	return findings
}

// checkEstimatesInCI requires every point estimate to lie within its CI,
// including the baseline distance against its own CI.
func (v Validator) checkEstimatesInCI(r *schema.Report) []Finding {
	var findings []Finding
	if r.Metrics != nil {
		if m := r.Metrics.Rank; m != nil {
			findings = appendFinding(findings, valueInCI("metrics.rank.rho", m.Rho, m.CI95))
		}
		if m := r.Metrics.Subspace; m != nil {
			findings = appendFinding(findings, valueInCI("metrics.subspace.rho", m.Rho, m.CI95))
		}
		if m := r.Metrics.Branching; m != nil {
			findings = appendFinding(findings, valueInCI("metrics.branching.H", m.H, m.CI95))
		}
	}
	if b := r.Baseline; b != nil {
		findings = appendFinding(findings, valueInCI("baseline.distance", b.Distance, b.DistanceCI95))
	}
	return findings
}

func valueInCI(path string, value *float64, ci []float64) *Finding {
	if value == nil || len(ci) != 2 {
		return nil
	}
	if !WithinInterval(*value, ci[0], ci[1]) {
		return &Finding{
			Severity: SeverityError,
			Path:     path,
			Message:  fmt.Sprintf("%s value %v is outside ci95 [%v, %v]", path, *value, ci[0], ci[1]),
		}
	}
	return nil
}

// checkThresholds requires green <= yellow <= red. A missing thresholds
// block is skipped; a present block with a missing bound is malformed.
func (v Validator) checkThresholds(r *schema.Report) *Finding {
	if r.Baseline == nil || r.Baseline.Thresholds == nil {
		return nil
	}
	t := r.Baseline.Thresholds
	if t.Green == nil || t.Yellow == nil || t.Red == nil {
		return &Finding{
			Severity: SeverityError,
			Path:     "baseline.thresholds",
			Message:  "baseline.thresholds must contain numeric green/yellow/red",
		}
	}
	g, y, red := *t.Green, *t.Yellow, *t.Red
	if !(g <= y+Tolerance && y <= red+Tolerance) {
		return &Finding{
			Severity: SeverityError,
			Path:     "baseline.thresholds",
			Message:  fmt.Sprintf("baseline.thresholds must satisfy green<=yellow<=red, got green=%v, yellow=%v, red=%v", g, y, red),
		}
	}
	return nil
}

// checkForbidden fails the document when its classification is in the
// configured forbidden set.
func (v Validator) checkForbidden(r *schema.Report) *Finding {
	if r.Baseline == nil || r.Baseline.Classification == nil {
		return nil
	}
	cls := *r.Baseline.Classification
	for _, forbidden := range v.Forbid {
		if cls == forbidden {
			return &Finding{
				Severity: SeverityError,
				Path:     "baseline.classification",
				Message:  fmt.Sprintf("Forbidden baseline.classification='%s'", cls),
			}
		}
	}
	return nil
}

// checkClassificationConsistency verifies, in strict mode only, that the
// classification label agrees with where the distance falls relative to the
// thresholds. Only the three contract labels are bound.
func (v Validator) checkClassificationConsistency(r *schema.Report) []Finding {
	if !v.StrictClassification || r.Baseline == nil {
		return nil
	}
	b := r.Baseline
	t := b.Thresholds
	if t == nil || t.Green == nil || t.Yellow == nil || t.Red == nil {
		return nil
	}
	if b.Distance == nil || b.Classification == nil {
		return nil
	}
	dist, green, yellow, red := *b.Distance, *t.Green, *t.Yellow, *t.Red
	cls := *b.Classification

	var findings []Finding
	switch cls {
	case ClassificationWithinEnvelope:
		if dist > yellow+Tolerance {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Path:     "baseline.classification",
				Message:  fmt.Sprintf("classification='%s' but distance=%v > yellow=%v", cls, dist, yellow),
			})
		}
	case ClassificationStrongDeviation:
		if dist < red-Tolerance {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Path:     "baseline.classification",
				Message:  fmt.Sprintf("classification='%s' but distance=%v < red=%v", cls, dist, red),
			})
		}
	case ClassificationDeviating:
		if !(green-Tolerance <= dist && dist <= red+Tolerance) {
			findings = append(findings, Finding{
				Severity: SeverityError,
				Path:     "baseline.classification",
				Message:  fmt.Sprintf("classification='%s' but distance=%v not in [green, red]", cls, dist),
			})
		}
	}
	return findings
}

// checkDisclaimer scans the notes for the standard disclaimer. Severity is
// configuration-dependent: error when the disclaimer is required, warning
// otherwise.
func (v Validator) checkDisclaimer(r *schema.Report) *Finding {
	if hasDisclaimer(r.Notes) {
		return nil
	}
	severity := SeverityWarning
	if v.RequireDisclaimer {
		severity = SeverityError
	}
	return &Finding{
		Severity: severity,
		Path:     "notes",
		Message:  fmt.Sprintf("notes missing standard disclaimer: '%s'", DisclaimerText),
	}
}

func hasDisclaimer(notes []string) bool {
	want := strings.ToLower(DisclaimerText)
	for _, note := range notes {
		if strings.Contains(strings.ToLower(note), want) {
			return true
		}
	}
	return false
}
