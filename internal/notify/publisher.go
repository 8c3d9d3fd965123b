// Package notify fans completion changes out to group activity feeds over
// redis pub/sub. Publishing is best effort: failures are logged and dropped.
package notify

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/limbo/readtogether/internal/breaker"
	"github.com/limbo/readtogether/pkg/entity"
)

const (
	channelPrefix  = "readtogether"
	publishTimeout = 2 * time.Second
)

// RedisPublisher is the subset of *redis.Client the publisher needs.
type RedisPublisher interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type CompletionEvent struct {
	UserID    string    `json:"user_id"`
	GroupID   string    `json:"group_id"`
	Date      string    `json:"date"`
	Completed bool      `json:"completed"`
	At        time.Time `json:"at"`
}

type Publisher struct {
	client  RedisPublisher
	breaker *breaker.CircuitBreaker
	logger  *zap.Logger
	now     func() time.Time
}

func NewPublisher(client RedisPublisher, cb *breaker.CircuitBreaker, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cb == nil {
		cb = breaker.New(breaker.Config{Name: "completion_publisher"}, logger)
	}
	return &Publisher{
		client:  client,
		breaker: cb,
		logger:  logger,
		now:     time.Now,
	}
}

func GroupChannel(groupID string) string {
	return strings.Join([]string{channelPrefix, "group", groupID, "completions"}, ":")
}

// PublishCompletion announces record to its group's channel. It never
// returns an error; a nil publisher does nothing.
func (p *Publisher) PublishCompletion(ctx context.Context, record *entity.CompletionRecord) {
	if p == nil || p.client == nil || record == nil {
		return
	}
	payload, err := sonic.Marshal(CompletionEvent{
		UserID:    record.UserID,
		GroupID:   record.GroupID,
		Date:      record.Date,
		Completed: record.Completed,
		At:        p.now(),
	})
	if err != nil {
		p.logger.Warn("encoding completion event failed", zap.Error(err))
		return
	}
	channel := GroupChannel(record.GroupID)
	err = p.breaker.Call(ctx, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()
		return p.client.Publish(ctx, channel, payload).Err()
	})
	if err != nil {
		p.logger.Warn("publishing completion event skipped",
			zap.String("channel", channel),
			zap.Error(err),
		)
	}
}
