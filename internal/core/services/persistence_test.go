package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
	"github.com/comitanigiacomo/kanso-daily/internal/core/services"
)

func TestPersistence_Load(t *testing.T) {
	ctx := context.Background()
	def := domain.HydrationDefinition()

	t.Run("Absent slot is nil without error", func(t *testing.T) {
		p := services.NewPersistence(NewMockStore())
		s, err := p.Load(ctx, def)
		assert.NoError(t, err)
		assert.Nil(t, s)
	})

	t.Run("Malformed or foreign blobs fall back silently", func(t *testing.T) {
		for name, blob := range map[string]string{
			"not json":       `{"date":`,
			"json null":      `null`,
			"wrong kind":     `{"kind":"workout","date":"2024-05-01"}`,
			"bad date":       `{"kind":"hydration","date":"May 1st"}`,
			"negative value": `{"kind":"hydration","date":"2024-05-01","progress":-4}`,
			"wrong types":    `{"kind":"hydration","date":"2024-05-01","progress":"lots"}`,
		} {
			t.Run(name, func(t *testing.T) {
				store := NewMockStore()
				store.Set(def.StorageKey, blob)

				s, err := services.NewPersistence(store).Load(ctx, def)
				assert.NoError(t, err)
				assert.Nil(t, s)
			})
		}
	})

	t.Run("Store failure is reported", func(t *testing.T) {
		store := NewMockStore()
		store.Fail(errStoreDown)

		_, err := services.NewPersistence(store).Load(ctx, def)
		assert.ErrorIs(t, err, errStoreDown)
	})

	t.Run("Round trip keeps the whole record", func(t *testing.T) {
		store := NewMockStore()
		p := services.NewPersistence(store)
		learning := domain.LearningDefinition()

		in := domain.NewTrackerState(learning, "2024-05-01")
		require.NoError(t, in.Record(learning, 1, 0))
		require.NoError(t, in.RenameCustomButton(learning, "Go"))
		require.NoError(t, p.Save(ctx, learning, in))

		out, err := p.Load(ctx, learning)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("Save failure is wrapped with the key", func(t *testing.T) {
		store := NewMockStore()
		store.Fail(errStoreDown)

		err := services.NewPersistence(store).Save(ctx, def, domain.NewTrackerState(def, "2024-05-01"))
		assert.ErrorIs(t, err, errStoreDown)
		assert.Contains(t, err.Error(), def.StorageKey)
	})
}
