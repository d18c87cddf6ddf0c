//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"peoplehub/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestMissIsErrMiss() {
	_, err := s.store.Get(context.Background(), "user:nobody@example.com")
	s.ErrorIs(err, ErrMiss)
}

func (s *RedisStoreSuite) TestSetGetDelete() {
	ctx := context.Background()
	s.Require().NoError(s.store.SetWithTTL(ctx, "settings:global", []byte(`{"a":1}`), time.Minute))

	raw, err := s.store.Get(ctx, "settings:global")
	s.Require().NoError(err)
	s.JSONEq(`{"a":1}`, string(raw))

	ttl, err := s.redis.Client.TTL(ctx, "settings:global").Result()
	s.Require().NoError(err)
	s.Greater(ttl, 50*time.Second)

	s.Require().NoError(s.store.Delete(ctx, "settings:global", "never-set"))
	_, err = s.store.Get(ctx, "settings:global")
	s.ErrorIs(err, ErrMiss)
}

func (s *RedisStoreSuite) TestAccessorOverRedis() {
	ctx := context.Background()
	accessor := New(s.store)
	calls := 0
	load := func(context.Context) (map[string]int, error) {
		calls++
		return map[string]int{"employees": calls}, nil
	}

	first, err := Read(ctx, accessor, DashboardStatsKey, TTLGeneral, load)
	s.Require().NoError(err)
	second, err := Read(ctx, accessor, DashboardStatsKey, TTLGeneral, load)
	s.Require().NoError(err)
	s.Equal(first, second)
	s.Equal(1, calls)

	accessor.InvalidateEntity(ctx, DashboardEventRef())
	_, err = Read(ctx, accessor, DashboardStatsKey, TTLGeneral, load)
	s.Require().NoError(err)
	s.Equal(1, calls, "unrelated invalidation leaves the key alone")

	accessor.InvalidateEntity(ctx, SettingsRef())
	_, err = Read(ctx, accessor, DashboardStatsKey, TTLGeneral, load)
	s.Require().NoError(err)
	s.Equal(2, calls, "settings change drops stats")
}
