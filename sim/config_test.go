package sim

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestDefaultConfigValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TickSize = 0
	cfg.AggressiveCrossProb = 1.5
	cfg.AdverseSelectionHorizon = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PassiveFillProbBase = -0.1
	_, err := New(cfg, Components{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
