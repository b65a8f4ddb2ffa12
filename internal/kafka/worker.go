package kafka

import (
	"context"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphbot/pkg/dialogue"
)

// Config configures the worker.
type Config struct {
	Brokers      []string
	Version      string
	Group        string
	RequestTopic string
	ReplyTopic   string
	ClientID     string
}

// SaramaConfig builds the client configuration shared by the consumer group
// and the reply producer.
func (c Config) SaramaConfig() (*sarama.Config, error) {
	cfg := sarama.NewConfig()
	// Consumer groups need at least 0.10.2.
	cfg.Version = sarama.V2_1_0_0
	if c.Version != "" {
		version, err := sarama.ParseKafkaVersion(c.Version)
		if err != nil {
			return nil, fmt.Errorf("kafka version: %w", err)
		}
		cfg.Version = version
	}
	cfg.ClientID = c.ClientID
	if cfg.ClientID == "" {
		cfg.ClientID = "graphbot"
	}

	cfg.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRange
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = true

	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg, nil
}

func (c Config) validate() error {
	switch {
	case len(c.Brokers) == 0:
		return fmt.Errorf("no kafka brokers configured")
	case c.Group == "":
		return fmt.Errorf("no consumer group configured")
	case c.RequestTopic == "" || c.ReplyTopic == "":
		return fmt.Errorf("request and reply topics are required")
	}
	return nil
}

// Worker consumes requests and publishes replies until its context ends.
type Worker struct {
	cfg      Config
	group    sarama.ConsumerGroup
	producer sarama.SyncProducer
	handler  *Handler
	logger   *log.Logger
}

// NewWorker connects the consumer group and the reply producer.
func NewWorker(cfg Config, bot *dialogue.Bot, logger *log.Logger) (*Worker, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	scfg, err := cfg.SaramaConfig()
	if err != nil {
		return nil, err
	}

	producer, err := sarama.NewSyncProducer(cfg.Brokers, scfg)
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}
	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.Group, scfg)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("create consumer group: %w", err)
	}

	return &Worker{
		cfg:      cfg,
		group:    group,
		producer: producer,
		handler:  NewHandler(bot, producer, cfg.ReplyTopic, logger),
		logger:   logger,
	}, nil
}

// Run consumes until ctx is cancelled. Consume returns on every rebalance,
// so it is called in a loop.
func (w *Worker) Run(ctx context.Context) error {
	go func() {
		for err := range w.group.Errors() {
			w.logger.Error("consumer group", "error", err)
		}
	}()

	w.logger.Info("consuming", "topic", w.cfg.RequestTopic, "group", w.cfg.Group, "brokers", w.cfg.Brokers)
	for {
		if err := w.group.Consume(ctx, []string{w.cfg.RequestTopic}, w.handler); err != nil {
			return fmt.Errorf("consume: %w", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// Close shuts down the consumer group and the producer.
func (w *Worker) Close() error {
	groupErr := w.group.Close()
	if err := w.producer.Close(); err != nil {
		return err
	}
	return groupErr
}
