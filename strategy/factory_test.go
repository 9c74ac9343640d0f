package strategy

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestNewDispatchesByType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HalfSpreadBps = 5
	s, err := New(cfg)
	require.NoError(t, err)
	mm, ok := s.(*InventorySkewMM)
	require.True(t, ok, "expected *InventorySkewMM, got %T", s)
	assert.Equal(t, 5.0, mm.HalfSpreadBps)

	cfg.Type = TypeDoNothing
	s, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, DoNothing{}, s)

	cfg.Type = TypeMomentum
	s, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &Momentum{}, s)

	cfg.Type = TypeTWAP
	s, err = New(cfg)
	require.NoError(t, err)
	assert.IsType(t, &TWAP{}, s)
}

func TestNewRejectsUnknownType(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Type = Type("garbage")
	_, err := New(cfg)
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestNewRejectsInvalidParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuoteSize = -1
	_, err := New(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	cfg = DefaultConfig()
	cfg.Type = TypeMomentum
	cfg.Window = 1
	_, err = New(cfg)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestParseTypeAcceptsLegacyNames(t *testing.T) {
	cases := map[string]Type{
		"InventorySkewMM":   TypeInventorySkew,
		"DoNothingStrategy": TypeDoNothing,
		"momentum":          TypeMomentum,
		" TWAP ":            TypeTWAP,
		"":                  TypeInventorySkew,
	}
	for in, want := range cases {
		got, err := ParseType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseType("GarbageStrategy")
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestTypeDecodesFromConfigFiles(t *testing.T) {
	var fromJSON Config
	require.NoError(t, json.Unmarshal([]byte(`{"type":"InventorySkewMM","quote_size":2}`), &fromJSON))
	assert.Equal(t, TypeInventorySkew, fromJSON.Type)
	assert.Equal(t, 2.0, fromJSON.QuoteSize)

	var fromYAML Config
	require.NoError(t, yaml.Unmarshal([]byte("type: twap\ntotal_steps: 50\n"), &fromYAML))
	assert.Equal(t, TypeTWAP, fromYAML.Type)
	assert.Equal(t, 50, fromYAML.TotalSteps)

	var bad Config
	assert.Error(t, json.Unmarshal([]byte(`{"type":"nope"}`), &bad))
}
