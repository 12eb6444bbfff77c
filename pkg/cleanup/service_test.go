package cleanup

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ventureforge/ventureforge/pkg/config"
	"github.com/ventureforge/ventureforge/pkg/models"
	"github.com/ventureforge/ventureforge/pkg/services"
	"github.com/ventureforge/ventureforge/pkg/store"
	"github.com/ventureforge/ventureforge/test/util"
)

type recordingDeleter struct {
	mu    sync.Mutex
	calls []int
	err   error
}

func (r *recordingDeleter) DeleteIdleSessions(_ context.Context, retentionDays int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, retentionDays)
	return 0, r.err
}

func (r *recordingDeleter) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestService_RunsImmediatelyAndOnInterval(t *testing.T) {
	defer goleak.VerifyNone(t)

	deleter := &recordingDeleter{}
	svc := NewService(&config.RetentionConfig{SessionRetentionDays: 7, CleanupInterval: 10 * time.Millisecond}, deleter)
	svc.Start(context.Background())

	require.Eventually(t, func() bool { return deleter.callCount() >= 3 }, time.Second, 5*time.Millisecond)
	svc.Stop()

	deleter.mu.Lock()
	defer deleter.mu.Unlock()
	for _, days := range deleter.calls {
		assert.Equal(t, 7, days)
	}
}

func TestService_KeepsRunningAfterErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	deleter := &recordingDeleter{err: errors.New("database unavailable")}
	svc := NewService(&config.RetentionConfig{SessionRetentionDays: 1, CleanupInterval: 10 * time.Millisecond}, deleter)
	svc.Start(context.Background())

	require.Eventually(t, func() bool { return deleter.callCount() >= 2 }, time.Second, 5*time.Millisecond)
	svc.Stop()
}

func TestService_StopIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := NewService(config.DefaultRetentionConfig(), &recordingDeleter{})
	svc.Stop()
	svc.Start(context.Background())
	svc.Start(context.Background())
	svc.Stop()
	svc.Stop()
}

func TestService_DeletesIdleSessions(t *testing.T) {
	client := util.SetupSQLiteClient(t)
	st := store.NewSessionStore(client)
	sessions := services.NewSessionService(st, nil, 0, nil)
	ctx := context.Background()

	fresh, err := sessions.CreateSession(ctx, models.CreateSessionRequest{UserName: "Ada"})
	require.NoError(t, err)

	old := time.Now().Add(-40 * 24 * time.Hour).UTC()
	_, err = client.DB().ExecContext(ctx,
		"INSERT INTO sessions (id, stage, context, version, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		"stale", "onboarding", "{}", 1, old, old)
	require.NoError(t, err)

	svc := NewService(&config.RetentionConfig{SessionRetentionDays: 30, CleanupInterval: time.Hour}, sessions)
	svc.Start(ctx)
	defer svc.Stop()

	require.Eventually(t, func() bool {
		_, err := st.Get(ctx, "stale")
		return errors.Is(err, store.ErrNotFound)
	}, 2*time.Second, 10*time.Millisecond)

	_, err = st.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}
