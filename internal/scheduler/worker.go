package scheduler

import (
	"context"
	"fmt"

	"sorun_takip_backend/internal/email"
	"sorun_takip_backend/platform/config"
	"sorun_takip_backend/platform/logger"

	"github.com/hibiken/asynq"
)

type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	sender email.Sender
	log    *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, sender email.Sender, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server: server,
		mux:    mux,
		sender: sender,
		log:    log,
	}

	mux.HandleFunc(TaskStatusChangedEmail, w.handleStatusChangedEmail)
	mux.HandleFunc(TaskWelcomeEmail, w.handleWelcomeEmail)

	return w, nil
}

func (w *Worker) handleStatusChangedEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseStatusChangedEmailPayload(task)
	if err != nil {
		return err
	}

	if w.sender == nil {
		w.log.Info("email sending disabled, dropping status-change mail", "to", payload.ToEmail)
		return nil
	}

	if err := w.sender.SendStatusChangedEmail(ctx, payload.ToEmail, payload.ReportTitle, payload.NewStatus, payload.ResolutionNote); err != nil {
		w.log.Error("failed to send status-change mail", "error", err, "to", payload.ToEmail)
		return err
	}

	w.log.Info("status-change mail sent", "to", payload.ToEmail, "status", payload.NewStatus)
	return nil
}

func (w *Worker) handleWelcomeEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWelcomeEmailPayload(task)
	if err != nil {
		return err
	}

	if w.sender == nil {
		w.log.Info("email sending disabled, dropping welcome mail", "to", payload.ToEmail)
		return nil
	}

	if err := w.sender.SendWelcomeEmail(ctx, payload.ToEmail, payload.FirstName); err != nil {
		w.log.Error("failed to send welcome mail", "error", err, "to", payload.ToEmail)
		return err
	}

	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
