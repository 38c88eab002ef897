package jobs

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/laborhours/api/pkg/logger"
)

// Client manages enqueueing background jobs using Asynq.
type Client struct {
	client *asynq.Client
	logger *logger.Logger
}

// ClientConfig contains configuration for the job client.
type ClientConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// NewClient creates a new job client for enqueueing tasks.
func NewClient(cfg ClientConfig, log *logger.Logger) (*Client, error) {
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}

	client := asynq.NewClient(redisOpt)

	return &Client{
		client: client,
		logger: log.With("component", "job_client"),
	}, nil
}

// Close closes the client connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueInvitationEmail enqueues an account invitation email job.
func (c *Client) EnqueueInvitationEmail(ctx context.Context, payload InvitationEmailPayload) error {
	task, err := NewInvitationEmailTask(payload)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		c.logger.Error("failed to enqueue invitation email",
			"email", payload.RecipientEmail,
			"error", err,
		)
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	c.logger.Info("invitation email queued",
		"task_id", info.ID,
		"email", payload.RecipientEmail,
		"queue", info.Queue,
	)
	return nil
}

// EnqueueReminderEmail enqueues a questionnaire reminder email job.
func (c *Client) EnqueueReminderEmail(ctx context.Context, payload ReminderEmailPayload) error {
	task, err := NewReminderEmailTask(payload)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		c.logger.Error("failed to enqueue reminder email",
			"email", payload.RecipientEmail,
			"error", err,
		)
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	c.logger.Info("reminder email queued",
		"task_id", info.ID,
		"email", payload.RecipientEmail,
		"queue", info.Queue,
	)
	return nil
}

// EnqueueRetentionSweep enqueues a retention sweep job.
func (c *Client) EnqueueRetentionSweep(ctx context.Context) error {
	info, err := c.client.EnqueueContext(ctx, NewRetentionSweepTask())
	if err != nil {
		c.logger.Error("failed to enqueue retention sweep", "error", err)
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	c.logger.Info("retention sweep queued", "task_id", info.ID, "queue", info.Queue)
	return nil
}

// EnqueueReminderFanOut enqueues a reminder fan-out job.
func (c *Client) EnqueueReminderFanOut(ctx context.Context) error {
	info, err := c.client.EnqueueContext(ctx, NewReminderFanOutTask())
	if err != nil {
		c.logger.Error("failed to enqueue reminder fan-out", "error", err)
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	c.logger.Info("reminder fan-out queued", "task_id", info.ID, "queue", info.Queue)
	return nil
}
