package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"PropertyAssessor/internal/assessor"
	"PropertyAssessor/internal/notifier"
	"PropertyAssessor/internal/store"

	"github.com/robfig/cron/v3"
)

// Sender delivers a formatted message to the operator chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler runs the periodic import and screening tasks and answers bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Assessor *assessor.Service
	Notifier Sender
	Filter   store.Filter
	Top      int
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. A nil notifier only logs.
func NewScheduler(ctx context.Context, svc *assessor.Service, n Sender, filter store.Filter, top int) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Assessor: svc,
		Notifier: n,
		Filter:   filter,
		Top:      top,
		Ctx:      ctx,
	}
}

// RegisterAll registers the import and screen tasks. An empty expression disables a task.
func (s *Scheduler) RegisterAll(importCron, screenCron string) error {
	if importCron != "" {
		if _, err := s.Cron.AddFunc(importCron, s.importTask); err != nil {
			return fmt.Errorf("register import task: %w", err)
		}
	}
	if screenCron != "" {
		if _, err := s.Cron.AddFunc(screenCron, s.screenTask); err != nil {
			return fmt.Errorf("register screen task: %w", err)
		}
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) importTask() {
	log.Println("[INFO] running import task")
	s.trySend(s.runImport(s.Ctx))
}

func (s *Scheduler) screenTask() {
	log.Println("[INFO] running screen task")
	s.trySend(s.runScreen(s.Ctx))
}

func (s *Scheduler) runImport(ctx context.Context) string {
	batch, err := s.Assessor.Import(ctx)
	if err != nil {
		log.Printf("[ERROR] import: %v", err)
		return notifier.FormatError("Import", err)
	}
	return notifier.FormatImportResult(batch)
}

func (s *Scheduler) runScreen(ctx context.Context) string {
	report, err := s.Assessor.Screen(ctx, s.Filter, s.Top)
	if err != nil {
		log.Printf("[ERROR] screen: %v", err)
		return notifier.FormatError("Screen", err)
	}
	return notifier.FormatScreenDigest(report)
}

func (s *Scheduler) runAnalyze(ctx context.Context, arg string) string {
	zpid, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || zpid <= 0 {
		return "Usage: /analyze &lt;zpid&gt;"
	}
	a, err := s.Assessor.Analyze(ctx, zpid, assessor.Overrides{})
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("No listing with zpid %d.", zpid)
	}
	if err != nil {
		log.Printf("[ERROR] analyze %d: %v", zpid, err)
		return notifier.FormatError("Analysis", err)
	}
	l, err := s.Assessor.Listings.Get(ctx, zpid)
	if err != nil {
		log.Printf("[WARN] load listing %d for report: %v", zpid, err)
		l = nil
	}
	return notifier.FormatAnalysisReport(l, a)
}

func (s *Scheduler) runStatus(ctx context.Context) string {
	n, err := s.Assessor.Listings.Count(ctx, store.Filter{})
	if err != nil {
		return notifier.FormatError("Status", err)
	}
	batch, err := s.Assessor.Listings.LatestImport(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Sprintf("%d listings stored, nothing imported yet.", n)
	}
	if err != nil {
		return notifier.FormatError("Status", err)
	}
	return fmt.Sprintf("%d listings stored.\n%s", n, notifier.FormatImportResult(batch))
}

// HandleCommand answers a bot command.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	name, arg, _ := strings.Cut(strings.TrimSpace(command), " ")
	switch name {
	case "/analyze":
		return s.runAnalyze(ctx, strings.TrimSpace(arg))
	case "/screen":
		return s.runScreen(ctx)
	case "/import":
		return s.runImport(ctx)
	case "/status":
		return s.runStatus(ctx)
	default:
		return "Commands:\n• /analyze &lt;zpid&gt;\n• /screen\n• /import\n• /status"
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		log.Printf("[INFO] %s", text)
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
