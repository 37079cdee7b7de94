package slug

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type setChecker map[string]bool

func (s setChecker) SlugExists(slug string) (bool, error) { return s[slug], nil }

type failingChecker struct{}

func (failingChecker) SlugExists(string) (bool, error) { return false, errors.New("db down") }

func TestMake(t *testing.T) {
	tests := map[string]string{
		"Demo":             "demo",
		"Hello, World!":    "hello-world",
		"Video sin título": "video-sin-titulo",
		"  spaced   out  ": "spaced-out",
		"!!!":              Fallback,
		"":                 Fallback,
	}
	for in, want := range tests {
		assert.Equal(t, want, Make(in), in)
	}
}

func TestUniqueProbesSuffixes(t *testing.T) {
	taken := setChecker{"demo": true, "demo-1": true}

	got, err := Unique(taken, "Demo")
	require.NoError(t, err)
	assert.Equal(t, "demo-2", got)

	got, err = Unique(taken, "Other")
	require.NoError(t, err)
	assert.Equal(t, "other", got)
}

func TestUniqueNeverRepeatsAsStoreGrows(t *testing.T) {
	taken := setChecker{}
	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		got, err := Unique(taken, "Demo")
		require.NoError(t, err)
		assert.False(t, seen[got], "duplicate slug %s", got)
		seen[got] = true
		taken[got] = true
	}
	assert.True(t, seen["demo-9"])
}

func TestUniquePropagatesErrors(t *testing.T) {
	_, err := Unique(failingChecker{}, "Demo")
	assert.ErrorContains(t, err, "db down")
}
