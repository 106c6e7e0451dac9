package notify

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-daily/internal/adapters/cache"
	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notice) {
	m.Called(ctx, n)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func testNotice() domain.Notice {
	return domain.Notice{
		ID:      uuid.NewString(),
		Kind:    domain.NoticeCompletion,
		Tracker: domain.KindWorkout,
		Message: "Workout: today's goal achieved!",
		At:      time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC),
	}
}

func TestMulti(t *testing.T) {
	ctx := context.Background()
	n := testNotice()

	first := new(MockNotifier)
	second := new(MockNotifier)
	first.On("Notify", ctx, n).Once()
	second.On("Notify", ctx, n).Once()

	Multi{first, nil, second}.Notify(ctx, n)

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestLogNotifier(t *testing.T) {
	assert.NotPanics(t, func() {
		LogNotifier{}.Notify(context.Background(), testNotice())
	})
}

func TestRedisNotifier_Integration(t *testing.T) {
	_ = godotenv.Load("../../../.env")

	rdb, err := cache.NewRedisClient(cache.Options{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", "secret_redis_pass_local"),
		DB:       1,
	})
	if err != nil {
		t.Skipf("Skipping Redis integration test: %v", err)
	}
	defer rdb.Close()

	ctx := context.Background()
	notifier := NewRedisNotifier(rdb, "")
	assert.Equal(t, DefaultChannel, notifier.Channel())

	sub := rdb.Subscribe(ctx, notifier.Channel())
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	n := testNotice()
	notifier.Notify(ctx, n)

	select {
	case msg := <-sub.Channel():
		var got domain.Notice
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, n, got)
	case <-time.After(2 * time.Second):
		t.Fatal("notice was not published")
	}
}
