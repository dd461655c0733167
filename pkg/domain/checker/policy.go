package checker

import (
	"fmt"
)

// LevelPolicy holds the thresholds for one security level. A nil threshold
// means the corresponding label never blocks at this level. Thresholds are
// inclusive upper bounds: a score exactly at the threshold blocks.
type LevelPolicy struct {
	// UnsafeThreshold blocks UNSAFE content when score >= threshold.
	// 0 means UNSAFE always blocks.
	UnsafeThreshold *float64 `mapstructure:"unsafe_threshold" json:"unsafe_threshold"`
	// UncertainThreshold blocks UNCERTAIN content when score >= threshold.
	UncertainThreshold *float64 `mapstructure:"uncertain_threshold" json:"uncertain_threshold"`
	// MinSafeScore blocks SAFE content when score < MinSafeScore,
	// i.e. the classifier is not confident enough that it is safe.
	MinSafeScore float64 `mapstructure:"min_safe_score" json:"min_safe_score"`
}

// PolicyEngine maps a ScoreResult and a security level to a verdict. It is
// a pure function of its inputs; the threshold table is an immutable
// snapshot built at startup.
type PolicyEngine struct {
	table map[SecurityLevel]LevelPolicy
}

func threshold(v float64) *float64 { return &v }

// DefaultPolicyTable returns the built-in threshold table. These values are
// calibration defaults; deployments override them via configuration.
func DefaultPolicyTable() map[SecurityLevel]LevelPolicy {
	return map[SecurityLevel]LevelPolicy{
		LevelLow: {
			UnsafeThreshold: threshold(0.5),
		},
		LevelMedium: {
			UnsafeThreshold:    threshold(0),
			UncertainThreshold: threshold(0.5),
		},
		LevelHigh: {
			UnsafeThreshold:    threshold(0),
			UncertainThreshold: threshold(0),
			MinSafeScore:       0.9,
		},
	}
}

// NewPolicyEngine validates the threshold table and builds an engine.
// An invalid table is a startup error, the service must not run with it.
func NewPolicyEngine(table map[SecurityLevel]LevelPolicy) (*PolicyEngine, error) {
	if len(table) == 0 {
		table = DefaultPolicyTable()
	}
	for _, level := range []SecurityLevel{LevelLow, LevelMedium, LevelHigh} {
		policy, ok := table[level]
		if !ok {
			return nil, fmt.Errorf("policy table missing security level %q", level)
		}
		if err := validateLevelPolicy(level, policy); err != nil {
			return nil, err
		}
	}

	snapshot := make(map[SecurityLevel]LevelPolicy, len(table))
	for level, policy := range table {
		snapshot[level] = policy
	}
	return &PolicyEngine{table: snapshot}, nil
}

func validateLevelPolicy(level SecurityLevel, policy LevelPolicy) error {
	if policy.UnsafeThreshold != nil && (*policy.UnsafeThreshold < 0 || *policy.UnsafeThreshold > 1) {
		return fmt.Errorf("level %q: unsafe_threshold must be within [0,1], got %v", level, *policy.UnsafeThreshold)
	}
	if policy.UncertainThreshold != nil && (*policy.UncertainThreshold < 0 || *policy.UncertainThreshold > 1) {
		return fmt.Errorf("level %q: uncertain_threshold must be within [0,1], got %v", level, *policy.UncertainThreshold)
	}
	if policy.MinSafeScore < 0 || policy.MinSafeScore > 1 {
		return fmt.Errorf("level %q: min_safe_score must be within [0,1], got %v", level, policy.MinSafeScore)
	}
	return nil
}

// Decide evaluates one score result at the given security level.
func (e *PolicyEngine) Decide(result ScoreResult, level SecurityLevel) PolicyDecision {
	policy, ok := e.table[level]
	if !ok {
		policy = e.table[LevelMedium]
		level = LevelMedium
	}

	switch result.Label {
	case LabelUnsafe:
		if policy.UnsafeThreshold != nil && result.Score >= *policy.UnsafeThreshold {
			return PolicyDecision{
				Verdict: VerdictBlock,
				Reason:  blockReason(result, level),
			}
		}
	case LabelUncertain:
		if policy.UncertainThreshold != nil && result.Score >= *policy.UncertainThreshold {
			return PolicyDecision{
				Verdict: VerdictBlock,
				Reason:  blockReason(result, level),
			}
		}
	case LabelSafe:
		if result.Score < policy.MinSafeScore {
			return PolicyDecision{
				Verdict: VerdictBlock,
				Reason: fmt.Sprintf(
					"classifier confidence %.2f below the %.2f required at %s security level",
					result.Score, policy.MinSafeScore, level,
				),
			}
		}
	}

	return PolicyDecision{Verdict: VerdictAllow}
}

func blockReason(result ScoreResult, level SecurityLevel) string {
	return fmt.Sprintf(
		"input classified as %s with score %.2f, blocked at %s security level",
		result.Label, result.Score, level,
	)
}
