package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/deppfellow/platform-api/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisRepository(t *testing.T) (*RedisRepository, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisRepository(client, "test"), mr
}

func TestRedisRepositoryCreateAndList(t *testing.T) {
	repo, mr := newTestRedisRepository(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mr.SetTime(base)
	older, err := repo.Create(ctx, model.CertificateRequests, model.CertificateRequests.Prepare(model.Fields{"name": "Ada"}))
	require.NoError(t, err)

	mr.SetTime(base.Add(time.Minute))
	newer, err := repo.Create(ctx, model.CertificateRequests, model.CertificateRequests.Prepare(model.Fields{"name": "Grace"}))
	require.NoError(t, err)

	stamped, ok := older.Fields["requestDate"].(time.Time)
	require.True(t, ok)
	assert.True(t, base.Equal(stamped), "requestDate %s should come from the redis clock", stamped)
	assert.Equal(t, model.StatusPending, older.Fields["status"])
	assert.True(t, mr.Exists("test:certificateRequests:"+older.ID))

	docs, err := repo.List(ctx, model.CertificateRequests)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// requestDate descending.
	assert.Equal(t, newer.ID, docs[0].ID)
	assert.Equal(t, older.ID, docs[1].ID)
	assert.Equal(t, "Grace", docs[0].Fields["name"])
	assert.Equal(t, "pending", docs[0].Fields["status"])
}

func TestRedisRepositoryListEmpty(t *testing.T) {
	repo, _ := newTestRedisRepository(t)

	docs, err := repo.List(context.Background(), model.Courses)
	require.NoError(t, err)
	require.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestRedisRepositoryUpdate(t *testing.T) {
	repo, _ := newTestRedisRepository(t)
	ctx := context.Background()

	doc, err := repo.Create(ctx, model.Courses, model.Fields{"title": "Intro", "level": "beginner"})
	require.NoError(t, err)

	require.NoError(t, repo.Update(ctx, model.Courses, doc.ID, model.Fields{"title": "Advanced"}))

	docs, err := repo.List(ctx, model.Courses)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Advanced", docs[0].Fields["title"])
	assert.Equal(t, "beginner", docs[0].Fields["level"])

	assert.ErrorIs(t, repo.Update(ctx, model.Courses, "missing", model.Fields{"title": "x"}), ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, model.Courses, doc.ID, model.Fields{}), ErrEmptyUpdate)
}

func TestRedisRepositoryDelete(t *testing.T) {
	repo, mr := newTestRedisRepository(t)
	ctx := context.Background()

	doc, err := repo.Create(ctx, model.Announcements, model.Fields{"text": "hello"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, model.Announcements, doc.ID))
	require.NoError(t, repo.Delete(ctx, model.Announcements, doc.ID))

	assert.False(t, mr.Exists("test:announcements:"+doc.ID))

	docs, err := repo.List(ctx, model.Announcements)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRedisRepositoryPing(t *testing.T) {
	repo, mr := newTestRedisRepository(t)

	require.NoError(t, repo.Ping(context.Background()))

	mr.Close()
	assert.Error(t, repo.Ping(context.Background()))
}
