package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDomainConfig(t *testing.T) {
	tests := []struct {
		env    string
		strict bool
		events bool
	}{
		{"production", true, true},
		{"development", false, false},
		{"staging", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := LoadDomainConfig(tt.env)
			assert.NoError(t, cfg.Validate())
			assert.Equal(t, tt.strict, cfg.StrictGoalChain)
			assert.Equal(t, tt.events, cfg.EnableEventPublishing)
		})
	}
}

func TestDomainConfigValidate(t *testing.T) {
	cfg := DefaultDomainConfig()
	cfg.MaxCollectionItems = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultDomainConfig()
	cfg.MaxDocumentBytes = -1
	assert.Error(t, cfg.Validate())
}
