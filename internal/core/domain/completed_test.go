package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletedSet(t *testing.T) {
	t.Run("Zero value is an empty set", func(t *testing.T) {
		var s domain.CompletedSet
		assert.Equal(t, 0, s.Len())
		assert.False(t, s.Has("Coding test"))
		assert.Empty(t, s.Labels())
	})

	t.Run("Add keeps insertion order and rejects duplicates", func(t *testing.T) {
		var s domain.CompletedSet
		assert.True(t, s.Add("Cert exam", 200))
		assert.True(t, s.Add("Coding test", 200))
		assert.False(t, s.Add("Cert exam", 200))

		assert.Equal(t, []string{"Cert exam", "Coding test"}, s.Labels())
	})

	t.Run("RemoveAt frees the label for a new Add", func(t *testing.T) {
		s := domain.NewCompletedSet(
			domain.CompletedEntry{Label: "a", Value: 1},
			domain.CompletedEntry{Label: "b", Value: 2},
			domain.CompletedEntry{Label: "c", Value: 3},
		)

		e, ok := s.RemoveAt(1)
		require.True(t, ok)
		assert.Equal(t, domain.CompletedEntry{Label: "b", Value: 2}, e)
		assert.Equal(t, []string{"a", "c"}, s.Labels())
		assert.False(t, s.Has("b"))

		_, ok = s.RemoveAt(5)
		assert.False(t, ok)
		assert.True(t, s.Add("b", 2))
	})

	t.Run("JSON drops duplicate labels", func(t *testing.T) {
		var s domain.CompletedSet
		err := json.Unmarshal([]byte(`[{"label":"a","value":200},{"label":"a","value":200},{"label":"b","value":100}]`), &s)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, s.Labels())

		out, err := json.Marshal(domain.CompletedSet{})
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(out))
	})
}
