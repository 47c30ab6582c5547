package redis

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/gget5897-gif/brainrot-bot/internal/domain"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testClient *redis.Client

// TestMain starts a throwaway redis container. Without docker the tests
// in this package are skipped.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil || pool.Client.Ping() != nil {
		log.Printf("docker unavailable, skipping redis session tests")
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start Redis resource: %s", err)
	}

	addr := resource.GetHostPort("6379/tcp")
	if err := pool.Retry(func() error {
		var errRetry error
		testClient, errRetry = NewClient(context.Background(), addr, "", 0)
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to Redis: %s", err)
	}

	code := m.Run()

	_ = testClient.Close()
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge Redis resource: %s", err)
	}
	os.Exit(code)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	if testing.Short() || testClient == nil {
		t.Skip("redis not available")
	}
	require.NoError(t, testClient.FlushDB(context.Background()).Err())
	return NewStore(testClient, time.Hour)
}

func TestStore_BrowsePosition(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	pos, err := s.BrowsePosition(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)

	require.NoError(t, s.SetBrowsePosition(ctx, 1, 4))
	pos, err = s.BrowsePosition(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, pos)

	ttl, err := testClient.TTL(ctx, key(browseKeyPrefix, 1)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.SetBrowsePosition(ctx, 2, 0))
	n, err := s.TrackedSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_FormRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	f, err := s.Form(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, f)

	want := domain.FormState{Kind: domain.FormEditValue, ListingID: 12, Field: domain.FieldPrice}
	require.NoError(t, s.SetForm(ctx, 7, want))
	f, err = s.Form(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, want, *f)

	require.NoError(t, s.SetForm(ctx, 7, domain.FormState{}))
	f, err = s.Form(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestStore_Moderation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.SetModeration(ctx, 3, &domain.ModerationCursor{IDs: []int64{5, 6}, Index: 1}))
	c, err := s.Moderation(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, []int64{5, 6}, c.IDs)
	assert.Equal(t, 1, c.Index)

	require.NoError(t, s.SetModeration(ctx, 3, nil))
	c, err = s.Moderation(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestStore_CorruptEntryDropped(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	k := key(formKeyPrefix, 8)
	require.NoError(t, testClient.Set(ctx, k, "{not json", time.Hour).Err())
	f, err := s.Form(ctx, 8)
	require.NoError(t, err)
	assert.Nil(t, f)

	n, err := testClient.Exists(ctx, k).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n, fmt.Sprintf("key %s should be removed", k))
}
