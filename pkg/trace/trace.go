// Package trace turns fact-check analysis results into origin-tracing
// graphs. An [Analysis] is the upstream fact-checker's verdict document; the
// package classifies its parts into diagram nodes and role-adjacency edges
// ready for the layout engine.
package trace

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Analysis Model
// =============================================================================

// Verdict is the fact-checker's conclusion about a claim.
type Verdict string

// Verdicts.
const (
	VerdictTrue       Verdict = "true"
	VerdictFalse      Verdict = "false"
	VerdictMisleading Verdict = "misleading"
	VerdictUnverified Verdict = "unverified"
)

// Valid reports whether v is a defined verdict.
func (v Verdict) Valid() bool {
	switch v {
	case VerdictTrue, VerdictFalse, VerdictMisleading, VerdictUnverified:
		return true
	}
	return false
}

// Stance is a source's relationship to the claim it is cited for.
type Stance string

// Stances.
const (
	StanceSupports Stance = "supports"
	StanceDisputes Stance = "disputes"
	StanceNeutral  Stance = "neutral"
)

// Valid reports whether s is a defined stance.
func (s Stance) Valid() bool {
	switch s {
	case StanceSupports, StanceDisputes, StanceNeutral:
		return true
	}
	return false
}

// Analysis is a completed fact-check of a single claim. It is the contract
// with the upstream checking pipeline; everything the diagram shows derives
// from this document.
type Analysis struct {
	// Claim is the statement under analysis. Required.
	Claim string `json:"claim"`
	// Verdict defaults to unverified when empty.
	Verdict Verdict `json:"verdict,omitempty"`
	// Origin describes the claim's earliest known appearance, when traced.
	Origin *Origin `json:"origin,omitempty"`
	// Evolution lists how the claim mutated on its way to the present
	// wording, oldest first.
	Evolution []Step `json:"evolution,omitempty"`
	// Beliefs lists the psychological or social drivers behind the claim's
	// spread.
	Beliefs []Belief `json:"beliefs,omitempty"`
	// Sources lists cited evidence with reliability assessments.
	Sources []Source `json:"sources,omitempty"`
	// Links lists auxiliary reference URLs not tied to a specific source.
	Links []string `json:"links,omitempty"`
}

// Origin is the earliest traced appearance of a claim.
type Origin struct {
	Description string `json:"description"`
	Platform    string `json:"platform,omitempty"`
	Date        string `json:"date,omitempty"`
}

// Step is one mutation of the claim between origin and present.
type Step struct {
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
}

// Belief is one driver behind the claim's spread.
type Belief struct {
	Driver      string `json:"driver"`
	Explanation string `json:"explanation,omitempty"`
}

// Source is one cited piece of evidence.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	// Reliability scores the source from 0 (untrustworthy) to 1 (solid).
	Reliability float64 `json:"reliability"`
	// Stance defaults to neutral when empty.
	Stance Stance `json:"stance,omitempty"`
}

// =============================================================================
// Validation
// =============================================================================

// Validation errors returned by [Analysis.Validate].
var (
	// ErrEmptyClaim is returned when an analysis carries no claim text.
	ErrEmptyClaim = errors.New("analysis claim must not be empty")
	// ErrBadVerdict is returned for a verdict outside the defined set.
	ErrBadVerdict = errors.New("unknown verdict")
	// ErrBadStance is returned for a source stance outside the defined set.
	ErrBadStance = errors.New("unknown source stance")
	// ErrReliabilityRange is returned when a source reliability falls
	// outside [0, 1].
	ErrReliabilityRange = errors.New("source reliability must be within [0, 1]")
)

// Validate checks the analysis document. Empty verdicts and stances are
// tolerated; they normalize during graph construction.
func (a Analysis) Validate() error {
	if a.Claim == "" {
		return ErrEmptyClaim
	}
	if a.Verdict != "" && !a.Verdict.Valid() {
		return fmt.Errorf("%w: %q", ErrBadVerdict, a.Verdict)
	}
	for i, s := range a.Sources {
		if s.Stance != "" && !s.Stance.Valid() {
			return fmt.Errorf("%w: %q on source %d", ErrBadStance, s.Stance, i)
		}
		if s.Reliability < 0 || s.Reliability > 1 {
			return fmt.Errorf("%w: %g on source %d", ErrReliabilityRange, s.Reliability, i)
		}
	}
	return nil
}

// =============================================================================
// Analysis Serialization API
// =============================================================================

// MarshalAnalysis converts an analysis to indented JSON bytes.
func MarshalAnalysis(a Analysis) ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	return data, nil
}

// ReadAnalysisFile reads a JSON analysis document from a file.
func ReadAnalysisFile(path string) (Analysis, error) {
	f, err := os.Open(path)
	if err != nil {
		return Analysis{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadAnalysis(f)
}

// ReadAnalysis decodes and validates a JSON analysis from an io.Reader.
func ReadAnalysis(r io.Reader) (Analysis, error) {
	var a Analysis
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return Analysis{}, fmt.Errorf("decode: %w", err)
	}
	if err := a.Validate(); err != nil {
		return Analysis{}, err
	}
	return a, nil
}
