package checker

import (
	"fmt"
	"strings"
)

// SecurityLevel is the caller-selected strictness tier.
type SecurityLevel string

const (
	LevelLow    SecurityLevel = "low"
	LevelMedium SecurityLevel = "medium"
	LevelHigh   SecurityLevel = "high"
)

// ParseSecurityLevel normalizes a client-supplied level. Empty or unknown
// values fall back to medium, matching the GUI client's default.
func ParseSecurityLevel(s string) SecurityLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return LevelLow
	case "high":
		return LevelHigh
	default:
		return LevelMedium
	}
}

// Label is the classifier's categorical output.
type Label string

const (
	LabelSafe      Label = "SAFE"
	LabelUnsafe    Label = "UNSAFE"
	LabelUncertain Label = "UNCERTAIN"
)

// ParseLabel maps raw classifier output to a Label. Anything the model
// returns outside SAFE/UNSAFE is treated as uncertain.
func ParseLabel(s string) Label {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "SAFE":
		return LabelSafe
	case "UNSAFE":
		return LabelUnsafe
	default:
		return LabelUncertain
	}
}

type Verdict string

const (
	VerdictAllow Verdict = "allowed"
	VerdictBlock Verdict = "blocked"
)

// ScoreResult is produced once per request by the classifier. Score is the
// model's confidence in the reported label, in [0,1].
type ScoreResult struct {
	Score float64 `json:"score"`
	Label Label   `json:"label"`
}

// PolicyDecision is the outcome of evaluating one ScoreResult against a
// security level. Reason is set iff the verdict is block.
type PolicyDecision struct {
	Verdict Verdict
	Reason  string
}

func (d PolicyDecision) Blocked() bool { return d.Verdict == VerdictBlock }

// CheckRequest is one inbound classification request.
type CheckRequest struct {
	Text          string
	UserID        string
	SecurityLevel SecurityLevel
}

// CheckResult is the externally visible artifact of one request. It is
// assembled once and never mutated afterwards.
type CheckResult struct {
	Verdict  Verdict
	Reason   string
	Score    float64
	Response string
}

// ErrInvalidInput marks caller errors rejected before scoring.
type ErrInvalidInput struct {
	Msg string
}

func (e *ErrInvalidInput) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Msg)
}
