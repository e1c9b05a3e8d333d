package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/tattler/internal/logger"
)

// ReviewConsumer listens to the review.created queue and appends one
// structured line per event to an activity log.
type ReviewConsumer struct {
	url      string
	activity zerolog.Logger
	log      *logger.Logger
}

func NewReviewConsumer(url string, out io.Writer, log *logger.Logger) *ReviewConsumer {
	return &ReviewConsumer{
		url:      url,
		activity: zerolog.New(out).With().Timestamp().Logger(),
		log:      log,
	}
}

// OpenActivityLog opens path for appending, creating parent directories.
func OpenActivityLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open activity log: %w", err)
	}
	return f, nil
}

// Run consumes until ctx is cancelled, reconnecting with exponential
// backoff when the broker is unreachable or the channel closes.
func (c *ReviewConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.DialConfig(c.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
		if err != nil {
			c.log.Error(ctx, fmt.Sprintf("review consumer: dial failed, retrying in %s", backoff), err)
			if !sleep(ctx, backoff) {
				return nil
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return nil
		}
		c.log.Error(ctx, "review consumer: consume loop ended, reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return nil
		}
	}
}

func (c *ReviewConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Error(ctx, "review consumer: set QoS failed", err)
	}
	if _, err := ch.QueueDeclare(ReviewQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(ReviewQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	c.log.Info(ctx, "review consumer: listening on "+ReviewQueueName)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(d.Body); err != nil {
				c.log.Error(ctx, "review consumer: handle message failed", err)
				_ = d.Nack(false, false) // do not requeue poison messages
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *ReviewConsumer) handle(body []byte) error {
	var ev ReviewEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	switch ev.Kind {
	case KindComment:
	case KindRating:
		if ev.Rating == nil {
			return errors.New("rating event without score")
		}
	default:
		return fmt.Errorf("unknown review kind %q", ev.Kind)
	}

	entry := c.activity.Info().
		Str("kind", ev.Kind).
		Uint64("review_id", ev.ReviewID).
		Uint64("restaurant_id", ev.RestaurantID).
		Uint64("author_id", ev.AuthorID).
		Str("created_at", ev.CreatedAt)
	if ev.Kind == KindRating {
		entry.Float64("rating", *ev.Rating).Msg("rating created")
	} else {
		entry.Str("comment", ev.Comment).Msg("comment created")
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
