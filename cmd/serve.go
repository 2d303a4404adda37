package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flowershop_backend/config"
	"flowershop_backend/internal/mailer"
	"flowershop_backend/internal/payments"
	"flowershop_backend/internal/storage"
	"flowershop_backend/server"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the email worker",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	if cfg.AutoMigrate {
		if err := config.Migrate(db, log); err != nil {
			return err
		}
	}

	disk, err := storage.NewDisk(cfg.StorageDir)
	if err != nil {
		return err
	}

	queue, err := newEmailQueue(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer queue.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	dispatcher := mailer.NewDispatcher(queue, sender, log)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		dispatcher.Run(ctx)
	}()

	if cfg.StripeWebhookSecret == "" {
		log.Warn().Msg("STRIPE_WEBHOOK_SECRET is not set, payment webhooks are rejected")
	}
	if cfg.StripeAPIKey == "" {
		log.Warn().Msg("STRIPE_API_KEY is not set, payment intents are created locally")
	}
	app := server.New(server.Options{
		Config: cfg,
		DB:     db,
		Logger: log,
		Payments: payments.NewStripe(payments.Config{
			APIKey:        cfg.StripeAPIKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Currency:      cfg.StripeCurrency,
		}),
		Notifier: mailer.New(queue),
		Disk:     disk,
	})

	listenErr := make(chan error, 1)
	go func() {
		addr := cfg.Host + ":" + cfg.AppPort
		log.Info().Str("addr", addr).Str("env", cfg.AppEnv).Msg("server starting")
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		stop()
		<-workerDone
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("received shutdown signal")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	<-workerDone

	sent, failed := dispatcher.Stats()
	log.Info().Int("emails_sent", sent).Int("emails_failed", failed).Msg("server stopped")
	return nil
}

func newEmailQueue(ctx context.Context, cfg *config.Config, log zerolog.Logger) (mailer.Queue, error) {
	switch cfg.EmailQueue {
	case "", "memory":
		return mailer.NewMemoryQueue(256), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr(),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info().Str("addr", cfg.RedisAddr()).Msg("email queue on redis")
		return mailer.NewRedisQueue(client, mailer.DefaultRedisKey), nil
	default:
		return nil, errors.New("EMAIL_QUEUE must be memory or redis")
	}
}
