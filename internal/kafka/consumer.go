package kafka

import (
	"context"
	"errors"
	"sync"

	"github.com/segmentio/kafka-go"

	"drainwatch/internal/agent"
	"drainwatch/internal/config"
	"drainwatch/internal/logging"
)

// Consumer reads risk events pushed by the scoring pipeline and hands the
// raw payload to the delivery agent. Payload validation lives in the
// classifier, so message bytes pass through untouched.
type Consumer struct {
	reader *kafka.Reader
	agent  *agent.Agent
	logger *logging.Logger
}

func NewConsumer(cfg config.Config, ag *agent.Agent, logger *logging.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.Kafka.Broker},
		Topic:   cfg.Kafka.Topic,
		GroupID: cfg.Kafka.GroupID,
	})
	return &Consumer{reader: r, agent: ag, logger: logger}
}

// Start consumes until ctx is cancelled. One message is one alert; a
// failed event never stops the loop.
func (c *Consumer) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.logger.Infof("Kafka consumer started on topic %s", c.reader.Config().Topic)
		for {
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}
				c.logger.Errorf("Read message failed: %v", err)
				continue
			}
			if err := c.agent.HandlePush(ctx, msg.Value); err != nil {
				c.logger.Errorf("Push handling failed for offset %d: %v", msg.Offset, err)
			}
		}
	}()
}

func (c *Consumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.logger.Errorf("Kafka reader close failed: %v", err)
	}
}
