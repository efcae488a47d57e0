package jobs

import (
	"context"

	"github.com/hibiken/asynq"
)

// Client enqueues tasks from the web process.
type Client struct {
	client *asynq.Client
}

// NewClient connects an enqueue-only Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) (*Client, error) {
	return &Client{client: asynq.NewClient(redisOpts)}, nil
}

// SendPasswordReset enqueues the reset delivery task. The signature matches
// the auth mailer port so the client can back it directly.
func (c *Client) SendPasswordReset(ctx context.Context, email, token string) error {
	task, err := NewResetEmailTask(ResetEmailPayload{To: email, Token: token})
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
	return err
}

// Close releases client resources.
func (c *Client) Close() error {
	return c.client.Close()
}
