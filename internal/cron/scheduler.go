package cron

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Scheduler represents the application's scheduler service
type Scheduler struct {
	scheduler gocron.Scheduler
	logger    *zap.SugaredLogger

	mu   sync.Mutex
	jobs []Job
}

// Job represents a scheduled job
type Job struct {
	Name     string
	Schedule string
	Task     func()
	JobID    string
}

// gocronLogger routes gocron's own logging into zap.
type gocronLogger struct {
	logger *zap.SugaredLogger
}

func (l gocronLogger) Debug(msg string, args ...any) { l.logger.Debugw(msg, args...) }
func (l gocronLogger) Info(msg string, args ...any)  { l.logger.Infow(msg, args...) }
func (l gocronLogger) Warn(msg string, args ...any)  { l.logger.Warnw(msg, args...) }
func (l gocronLogger) Error(msg string, args ...any) { l.logger.Errorw(msg, args...) }

// NewScheduler creates a new scheduler with the given timezone
func NewScheduler(logger *zap.SugaredLogger, timezone string) (*Scheduler, error) {
	location, err := time.LoadLocation(timezone)
	if err != nil {
		logger.Warnf("Failed to load timezone %s, using UTC: %v", timezone, err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
		gocron.WithLogger(gocronLogger{logger: logger}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: s,
		logger:    logger,
	}, nil
}

// Start registers every added job and starts the scheduler
func (s *Scheduler) Start() {
	s.RegisterJobs()
	s.scheduler.Start()
	s.logger.Info("Scheduler started")
}

// Shutdown halts the scheduler and waits for running jobs
func (s *Scheduler) Shutdown() error {
	if err := s.scheduler.Shutdown(); err != nil {
		return err
	}
	s.logger.Info("Scheduler stopped")
	return nil
}

// RegisterJobs hands every job that is not scheduled yet to gocron
func (s *Scheduler) RegisterJobs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, job := range s.jobs {
		if job.JobID != "" {
			continue
		}

		s.logger.Infof("Registering job: %s with schedule %s", job.Name, job.Schedule)

		j, err := s.scheduler.NewJob(
			gocron.CronJob(job.Schedule, false),
			gocron.NewTask(s.wrap(job)),
			gocron.WithName(job.Name),
		)
		if err != nil {
			s.logger.Errorf("Failed to schedule job %s: %v", job.Name, err)
			continue
		}

		s.jobs[i].JobID = j.ID().String()
	}
}

func (s *Scheduler) wrap(job Job) func() {
	return func() {
		s.logger.Infof("Executing job: %s", job.Name)
		startTime := time.Now()

		defer func() {
			if r := recover(); r != nil {
				s.logger.Errorf("Job %s panicked: %v", job.Name, r)
			}
		}()

		job.Task()

		s.logger.Infof("Job %s completed in %v", job.Name, time.Since(startTime))
	}
}

// Custom adds a job with a five field cron expression
func (s *Scheduler) Custom(name string, schedule string, task func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Schedule: schedule,
		Task:     task,
	})
}

// GetJobs returns a copy of the added jobs
func (s *Scheduler) GetJobs() []Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Job(nil), s.jobs...)
}

// RunJobByName runs a job immediately and synchronously
func (s *Scheduler) RunJobByName(name string) error {
	for _, job := range s.GetJobs() {
		if job.Name == name {
			s.wrap(job)()
			return nil
		}
	}
	return fmt.Errorf("job not found: %s", name)
}
