package format

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinTransforms(t *testing.T) {
	r := NewRegistry()

	cases := []struct {
		name  string
		value any
		args  []any
		want  any
	}{
		{"upper", "ann", nil, "ANN"},
		{"lower", "ANN", nil, "ann"},
		{"capitalize", "ann arbor", nil, "Ann arbor"},
		{"capitalize", "", nil, ""},
		{"trim", "  ann  ", nil, "ann"},
		{"truncate", "annabel", []any{3}, "ann"},
		{"truncate", "ann", []any{10}, "ann"},
		{"prefix", "ann", []any{"dr. "}, "dr. ann"},
		{"suffix", "ann", []any{" jr"}, "ann jr"},
	}
	for _, tc := range cases {
		got, err := r.Apply(tc.name, tc.value, tc.args...)
		require.NoError(t, err, tc.name)
		assert.Equal(t, tc.want, got, tc.name)
	}
}

func TestTransformArgumentErrors(t *testing.T) {
	r := NewRegistry()

	_, err := r.Apply("upper", 42)
	assert.Error(t, err)
	_, err = r.Apply("truncate", "ann")
	assert.Error(t, err)
	_, err = r.Apply("truncate", "ann", "three")
	assert.Error(t, err)
	_, err = r.Apply("truncate", "ann", -1)
	assert.Error(t, err)
	_, err = r.Apply("prefix", "ann")
	assert.Error(t, err)
}

func TestApplyUnknownTransform(t *testing.T) {
	r := NewRegistry()
	_, err := r.Apply("sparkle", "ann")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("reverse", func(value any, _ ...any) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, errors.New("format: reverse expects a string value")
		}
		runes := []rune(s)
		for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
			runes[i], runes[j] = runes[j], runes[i]
		}
		return string(runes), nil
	})

	got, err := r.Apply("reverse", "ann arbor")
	require.NoError(t, err)
	assert.Equal(t, "robra nna", got)

	_, ok := r.Lookup("reverse")
	assert.True(t, ok)
	assert.Contains(t, r.Names(), "reverse")

	// Blank registrations are ignored.
	r.Register("", func(value any, _ ...any) (any, error) { return value, nil })
	_, ok = r.Lookup("")
	assert.False(t, ok)
}

func TestFindAlwaysReturnsFirstMatch(t *testing.T) {
	// The first flag is inert: Find returns at most one name whatever the
	// flag says, so first=false never selects all matches.
	r := NewRegistry()

	assert.Equal(t, []string{"trim"}, r.Find("tr", true))
	assert.Equal(t, []string{"trim"}, r.Find("tr", false), "first=false still yields a single match")
	assert.Nil(t, r.Find("zz", false))
}
