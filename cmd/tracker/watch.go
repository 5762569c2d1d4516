package main

import (
	"context"
	"errors"
	"fmt"

	"budgettracker/internal/cli"
	"budgettracker/internal/core"
	"budgettracker/internal/events"
	"budgettracker/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var errFeedDisabled = errors.New("change feed is not configured: set amqp_url or TRACKER_AMQP_URL")

func watchCmd(e *env) *cobra.Command {
	var bindingKey string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the change feed published by other tracker sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !e.cfg.AMQPEnabled() {
				return errFeedDisabled
			}
			if bindingKey == "" {
				bindingKey = e.cfg.AMQPRoutingKey
			}

			consumer := events.NewAMQPConsumer(e.cfg.AMQPURL, e.cfg.AMQPExchange, bindingKey, e.cfg.AMQPQueue, e.logger)
			defer consumer.Close()

			feed := worker.NewFeedWorker(e.out, func(d decimal.Decimal) string {
				return core.FormatCurrency(d, e.cfg.CurrencySymbol)
			}, e.logger)

			fmt.Fprintln(e.errOut, cli.SubtleStyle.Render(cli.InfoIcon+" Waiting for changes, Ctrl+C to stop"))
			err := consumer.Consume(cmd.Context(), feed.HandleStateChanged)

			processed, skipped := feed.Stats()
			e.logger.Info("Change feed stopped", "processed", processed, "skipped", skipped)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().StringVar(&bindingKey, "binding-key", "", "topic pattern to follow (default: amqp_routing_key)")
	return cmd
}
