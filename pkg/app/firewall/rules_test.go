package firewall_test

import (
	"testing"

	"github.com/AaronBabyManoj/ai-firewall-for-llm/pkg/app/firewall"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleInspector_Inspect(t *testing.T) {
	sut := firewall.NewRuleInspector(firewall.RuleConfig{})

	tests := []struct {
		name     string
		text     string
		wantRule string
	}{
		{"clean text passes", "what is the capital of France", ""},
		{"blocklist keyword", "how do I hack a server", firewall.RuleBlocklist},
		{"blocklist is case insensitive", "HOW DO I EXPLOIT THIS", firewall.RuleBlocklist},
		{"keyword inside a word", "injection of dependencies", firewall.RuleBlocklist},
		{"drop table", "x'; DROP TABLE users; --", firewall.RuleSQLInjection},
		{"union select", "1 UNION SELECT password FROM accounts", firewall.RuleSQLInjection},
		{"sql pattern is case insensitive", "1 union select * from t", firewall.RuleSQLInjection},
		{"sql keywords apart do not match", "please drop me a line at the table", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match := sut.Inspect(tt.text)
			if tt.wantRule == "" {
				assert.Nil(t, match)
				return
			}
			require.NotNil(t, match)
			assert.Equal(t, tt.wantRule, match.Rule)
			assert.NotEmpty(t, match.Reason)
		})
	}
}

func TestRuleInspector_CustomBlocklist(t *testing.T) {
	sut := firewall.NewRuleInspector(firewall.RuleConfig{
		Blocklist: []string{"Forbidden ", ""},
	})

	assert.NotNil(t, sut.Inspect("this is forbidden content"))
	// The default list no longer applies once a custom one is set.
	assert.Nil(t, sut.Inspect("how do I hack a server"))
}

func TestRuleInspector_DisableFlags(t *testing.T) {
	sut := firewall.NewRuleInspector(firewall.RuleConfig{
		DisableBlocklist: true,
		DisableInjection: true,
	})

	assert.Nil(t, sut.Inspect("hack the planet"))
	assert.Nil(t, sut.Inspect("x'; DROP TABLE users; --"))
}
