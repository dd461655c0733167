package config

import (
	"testing"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/domain/checker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestConfig_PolicyTable_Defaults(t *testing.T) {
	cfg := &Config{}

	table, err := cfg.PolicyTable()

	require.NoError(t, err)
	assert.Equal(t, checker.DefaultPolicyTable(), table)
}

func TestConfig_PolicyTable_OverrideReplacesLevel(t *testing.T) {
	cfg := &Config{
		Policy: map[string]checker.LevelPolicy{
			"Low": {UnsafeThreshold: floatPtr(0.3)},
		},
	}

	table, err := cfg.PolicyTable()

	require.NoError(t, err)
	// The configured entry replaces the built-in one wholesale.
	assert.Equal(t, checker.LevelPolicy{UnsafeThreshold: floatPtr(0.3)}, table[checker.LevelLow])
	// Untouched levels keep their defaults.
	assert.Equal(t, checker.DefaultPolicyTable()[checker.LevelHigh], table[checker.LevelHigh])
}

func TestConfig_PolicyTable_RejectsUnknownLevel(t *testing.T) {
	cfg := &Config{
		Policy: map[string]checker.LevelPolicy{
			"paranoid": {UnsafeThreshold: floatPtr(0)},
		},
	}

	_, err := cfg.PolicyTable()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "paranoid")
}
