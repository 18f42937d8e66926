package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"garage-service/internal/model"
)

// RedisNotifier publishes reorder alerts to a Redis channel so external
// consumers (dashboards, purchasing tools) can react. Delivery is
// best-effort; subscribers that are offline miss the message.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

// NewRedisNotifier connects to Redis and verifies the connection with a
// ping before returning.
func NewRedisNotifier(addr, password, channel string) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisNotifier{client: client, channel: channel}, nil
}

type reorderAlert struct {
	ProductID     uint   `json:"product_id"`
	CurrentStock  string `json:"current_stock"`
	MinStockLevel string `json:"min_stock_level"`
	OccurredAt    string `json:"occurred_at"`
}

func (n *RedisNotifier) NotifyReorder(ctx context.Context, inv *model.Inventory) error {
	alert := reorderAlert{
		ProductID:     inv.ProductID,
		CurrentStock:  inv.CurrentStock.StringFixed(2),
		MinStockLevel: inv.MinStockLevel.StringFixed(2),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal reorder alert: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish reorder alert: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
