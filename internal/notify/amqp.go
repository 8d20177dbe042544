package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"budgettracker/internal/logger"

	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const publishTimeout = 5 * time.Second

// AMQPNotifier publishes savings changes to a topic exchange, routed by
// message type.
type AMQPNotifier struct {
	mu           sync.Mutex
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
}

// NewAMQPNotifier dials the broker and declares the exchange.
func NewAMQPNotifier(url, exchangeName string) (*AMQPNotifier, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	n := &AMQPNotifier{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		n.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return n, nil
}

// SavingsUpdated implements SavingsNotifier.
func (n *AMQPNotifier) SavingsUpdated(userID uint, month, year int, amount decimal.Decimal) error {
	msg := NewSavingsUpdatedMessage(userID, month, year, amount)
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	// amqp091 channels are not safe for concurrent publishers.
	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.channel.PublishWithContext(
		ctx,
		n.exchangeName,     // exchange
		SavingsUpdatedType, // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    msg.ID,
			Timestamp:    msg.OccurredAt,
			Type:         SavingsUpdatedType,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	logger.Named("notify").Debugw("Published savings update",
		"message_id", msg.ID,
		"user_id", userID,
		"month", month,
		"year", year)
	return nil
}

// Close shuts down the channel and connection.
func (n *AMQPNotifier) Close() error {
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
