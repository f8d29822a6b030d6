// Package messaging publishes audit events for interested subscribers.
// Publishing is best-effort: the audit trail itself lives in the database and
// never depends on a delivered event.
package messaging

import (
	"context"
	"fmt"

	"github.com/garrywilliams/cake/internal/domain/model"
	"github.com/garrywilliams/cake/pkg/messaging"
)

// AuditEventPublisher announces newly written classification records.
type AuditEventPublisher interface {
	PublishClassification(ctx context.Context, request *model.CakeRequest) error
	Close() error
}

// redisAuditPublisher publishes audit events to a Redis channel.
type redisAuditPublisher struct {
	redisClient messaging.RedisClient
	channel     string
}

// NewRedisAuditPublisher creates a Redis-backed audit event publisher.
func NewRedisAuditPublisher(client messaging.RedisClient, channel string) AuditEventPublisher {
	return &redisAuditPublisher{
		redisClient: client,
		channel:     channel,
	}
}

// PublishClassification publishes the written record as a JSON event.
func (p *redisAuditPublisher) PublishClassification(ctx context.Context, request *model.CakeRequest) error {
	if request == nil {
		return fmt.Errorf("no audit record to publish")
	}

	if err := p.redisClient.Publish(ctx, p.channel, request); err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}

	return nil
}

// Close closes the underlying client.
func (p *redisAuditPublisher) Close() error {
	return p.redisClient.Close()
}

// noopAuditPublisher drops every event. Used when Redis is disabled.
type noopAuditPublisher struct{}

// NewNoopAuditPublisher creates a publisher that discards all events.
func NewNoopAuditPublisher() AuditEventPublisher {
	return noopAuditPublisher{}
}

func (noopAuditPublisher) PublishClassification(ctx context.Context, request *model.CakeRequest) error {
	return nil
}

func (noopAuditPublisher) Close() error {
	return nil
}
