package dns

import (
	"context"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{ readOnly bool }

func (stubProvider) ImportDomain(context.Context, string) (*Domain, error) { return &Domain{}, nil }
func (stubProvider) SetTimeout(time.Duration) {}

type readOnlyStub struct{ stubProvider }

func (s readOnlyStub) ReadOnly() bool { return s.readOnly }

func TestRegister_NewProvider(t *testing.T) {
	var got map[string]string
	Register("test-stub", func(_ logr.Logger, settings map[string]string) (Provider, error) {
		got = settings
		return stubProvider{}, nil
	})

	p, err := NewProvider("test-stub", logr.Discard(), map[string]string{"key": "value"})
	require.NoError(t, err)
	assert.IsType(t, stubProvider{}, p)
	assert.Equal(t, "value", got["key"], "settings passed to factory")
	assert.Contains(t, Registered(), "test-stub")
}

func TestRegister_DuplicatePanics(t *testing.T) {
	f := func(logr.Logger, map[string]string) (Provider, error) { return stubProvider{}, nil }
	Register("test-dup", f)

	assert.Panics(t, func() { Register("test-dup", f) })
}

func TestNewProvider_Unknown(t *testing.T) {
	_, err := NewProvider("nope", logr.Discard(), nil)
	assert.ErrorContains(t, err, `"nope"`)
}

func TestIsReadOnly(t *testing.T) {
	assert.False(t, IsReadOnly(stubProvider{}), "no ReadOnly method")
	assert.False(t, IsReadOnly(readOnlyStub{stubProvider{readOnly: false}}))
	assert.True(t, IsReadOnly(readOnlyStub{stubProvider{readOnly: true}}))
}

func TestTrimDot(t *testing.T) {
	tests := map[string]string{
		"example.com.": "example.com",
		"example.com":  "example.com",
		".":            "",
	}
	for in, want := range tests {
		assert.Equal(t, want, TrimDot(in), in)
	}
}
