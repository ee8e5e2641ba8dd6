package workers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/nikhilbhutani/storefront/internal/queue"
	"github.com/nikhilbhutani/storefront/internal/webhook"
)

type WebhookWorker struct {
	dispatcher *webhook.Dispatcher
}

func NewWebhookWorker(dispatcher *webhook.Dispatcher) *WebhookWorker {
	return &WebhookWorker{dispatcher: dispatcher}
}

func (w *WebhookWorker) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload queue.WebhookDeliverPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal webhook payload: %w", err)
	}

	webhookID, err := uuid.Parse(payload.WebhookID)
	if err != nil {
		return fmt.Errorf("invalid webhook id: %w", err)
	}

	return w.dispatcher.Deliver(ctx, webhook.DeliveryRequest{
		WebhookID: webhookID,
		URL:       payload.URL,
		Secret:    payload.Secret,
		Event:     payload.Event,
		Payload:   []byte(payload.Payload),
	})
}
