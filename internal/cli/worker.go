package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/xavierca1/unic-leads/internal/config"
	"github.com/xavierca1/unic-leads/internal/infra/mail"
	"github.com/xavierca1/unic-leads/internal/infra/queue"
	"github.com/xavierca1/unic-leads/internal/logger"
)

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Consume submission events and e-mail them to recruiters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.ValidateWorker(); err != nil {
				return err
			}

			log := logger.New(os.Stdout, logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

			rabbit, err := queue.NewRabbitMQ(cfg.Queue.AMQPURL)
			if err != nil {
				return err
			}
			defer rabbit.Close()

			sender := mail.NewEmailSender(
				cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password,
				cfg.Mail.From, cfg.Mail.To, cfg.Location(),
			)

			return queue.NewWorker(rabbit.Ch, sender, log).Start(cmd.Context(), queue.QueueName)
		},
	}
}
