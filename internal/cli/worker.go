package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphbot/internal/kafka"
)

// workerCommand creates the worker command running the Kafka consumer.
func (c *CLI) workerCommand() *cobra.Command {
	var brokers []string

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Answer dialogue messages from Kafka",
		Long: `Join the configured consumer group, answer every request on the
request topic with the dialogue bot, and publish the replies to the reply
topic keyed by session ID.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			kcfg := kafka.Config{
				Brokers:      c.cfg.Kafka.Brokers,
				Version:      c.cfg.Kafka.Version,
				Group:        c.cfg.Kafka.Group,
				RequestTopic: c.cfg.Kafka.RequestTopic,
				ReplyTopic:   c.cfg.Kafka.ReplyTopic,
				ClientID:     appName,
			}
			if len(brokers) > 0 {
				kcfg.Brokers = brokers
			}

			b, err := newBot(ctx, c.cfg, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			w, err := kafka.NewWorker(kcfg, b.Bot, logger)
			if err != nil {
				return err
			}
			defer w.Close()

			return w.Run(ctx)
		},
	}

	cmd.Flags().StringSliceVar(&brokers, "brokers", nil, "kafka bootstrap brokers (default from config)")
	return cmd
}
