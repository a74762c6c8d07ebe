package telegram

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concierge-bot/internal/common/cache"
)

type fakeAPI struct {
	status string
	err    error
	calls  []tgbotapi.GetChatMemberConfig
}

func (f *fakeAPI) Send(tgbotapi.Chattable) (tgbotapi.Message, error) {
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetChatMember(cfg tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	f.calls = append(f.calls, cfg)
	return tgbotapi.ChatMember{Status: f.status}, f.err
}

func TestIsMemberStatuses(t *testing.T) {
	cases := map[string]bool{
		"creator":       true,
		"administrator": true,
		"member":        true,
		"restricted":    false,
		"left":          false,
		"kicked":        false,
	}
	for status, want := range cases {
		t.Run(status, func(t *testing.T) {
			api := &fakeAPI{status: status}
			ok, err := NewMembership(api, "@family_care", nil, 0).IsMember(context.Background(), 42)
			require.NoError(t, err)
			assert.Equal(t, want, ok)
			require.Len(t, api.calls, 1)
			assert.Equal(t, "@family_care", api.calls[0].SuperGroupUsername)
			assert.Equal(t, int64(42), api.calls[0].UserID)
		})
	}
}

func TestMembershipNumericChannel(t *testing.T) {
	api := &fakeAPI{status: "member"}
	_, err := NewMembership(api, "-1001234567890", nil, 0).IsMember(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(-1001234567890), api.calls[0].ChatID)
	assert.Empty(t, api.calls[0].SuperGroupUsername)
}

func TestJoinURL(t *testing.T) {
	assert.Equal(t, "https://t.me/family_care", NewMembership(&fakeAPI{}, "@family_care", nil, 0).JoinURL())
	assert.Equal(t, "https://t.me/family_care", NewMembership(&fakeAPI{}, "family_care", nil, 0).JoinURL())
	assert.Empty(t, NewMembership(&fakeAPI{}, "-1001234567890", nil, 0).JoinURL())
}

func TestMembershipRateLimit(t *testing.T) {
	api := &fakeAPI{err: &tgbotapi.Error{Code: 429, Message: "Too Many Requests", ResponseParameters: tgbotapi.ResponseParameters{RetryAfter: 3}}}
	_, err := NewMembership(api, "family_care", nil, 0).IsMember(context.Background(), 7)

	var rps *RPSError
	require.ErrorAs(t, err, &rps)
	assert.Equal(t, 3, rps.RetryAfter)
}

func TestMembershipCachesPositiveAnswers(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	c := cache.NewCacheService(rdb, "test")

	api := &fakeAPI{status: "left"}
	m := NewMembership(api, "family_care", c, time.Minute)
	ctx := context.Background()

	ok, err := m.IsMember(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)

	api.status = "member"
	ok, err = m.IsMember(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	api.status = "left"
	ok, err = m.IsMember(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, api.calls, 2)

	assert.Equal(t, "https://t.me/family_care", m.JoinURL())
}
