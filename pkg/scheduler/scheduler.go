package scheduler

import (
	"context"
	"sync"
	"time"

	applogger "CoinScan/pkg/logger"
)

const defaultJobTimeout = 5 * time.Minute

// Schedule defines when a job fires.
type Schedule struct {
	kind     scheduleKind
	hour     int
	minute   int
	interval time.Duration
}

type scheduleKind int

const (
	kindDaily    scheduleKind = iota // once a day at HH:MM UTC
	kindInterval                     // every N duration
)

// DailyAt builds a "every day at HH:MM UTC" schedule.
func DailyAt(hour, minute int) Schedule {
	return Schedule{kind: kindDaily, hour: hour, minute: minute}
}

// Every builds a fixed-interval schedule.
func Every(d time.Duration) Schedule {
	return Schedule{kind: kindInterval, interval: d}
}

func (s Schedule) nextRun(now time.Time) time.Time {
	switch s.kind {
	case kindDaily:
		next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		return next
	case kindInterval:
		return now.Add(s.interval)
	default:
		return now.Add(24 * time.Hour)
	}
}

// Job is a single scheduled task.
type Job struct {
	Name        string
	Description string
	Schedule    Schedule
	Handler     func(ctx context.Context) error

	// RunAtStart makes the first run fire on the first tick instead of
	// waiting for the schedule interval.
	RunAtStart bool

	// Timeout bounds a single run. Zero means defaultJobTimeout.
	Timeout time.Duration

	mu      sync.Mutex
	nextRun time.Time
	lastRun time.Time
	lastErr error
	runs    int
	running bool
}

// Status returns a snapshot of the job state.
func (j *Job) Status() JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobStatus{
		Name:        j.Name,
		Description: j.Description,
		NextRun:     j.nextRun,
		LastRun:     j.lastRun,
		LastErr:     j.lastErr,
		Runs:        j.runs,
	}
}

// JobStatus is a point-in-time snapshot of a job.
type JobStatus struct {
	Name        string
	Description string
	NextRun     time.Time
	LastRun     time.Time
	LastErr     error
	Runs        int
}

// Scheduler runs registered jobs on their schedules.
type Scheduler struct {
	jobs     []*Job
	mu       sync.RWMutex
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	tick     time.Duration
	logger   *applogger.Logger
}

// Option configures the Scheduler.
type Option func(*Scheduler)

// WithTickInterval overrides how often due jobs are checked.
func WithTickInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		s.tick = d
	}
}

// New creates a scheduler. Jobs must be registered before Start.
func New(l *applogger.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		stopChan: make(chan struct{}),
		tick:     30 * time.Second,
		logger:   l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if job.RunAtStart {
		job.nextRun = now
	} else {
		job.nextRun = job.Schedule.nextRun(now)
	}
	s.jobs = append(s.jobs, job)

	if s.logger != nil {
		s.logger.Info("scheduler: job registered",
			applogger.String("job", job.Name),
			applogger.String("next_run", job.nextRun.Format(time.RFC3339)),
		)
	}
}

// Start launches the scheduler loop in a background goroutine.
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	if s.logger != nil {
		s.logger.Info("scheduler: started", applogger.Int("jobs", len(s.jobs)))
	}
}

// Stop stops the scheduler and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
	if s.logger != nil {
		s.logger.Info("scheduler: stopped")
	}
}

// Jobs returns the status of all registered jobs.
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.RLock()
	jobs := make([]*Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.RUnlock()

	statuses := make([]JobStatus, len(jobs))
	for i, j := range jobs {
		statuses[i] = j.Status()
	}
	return statuses
}

func (s *Scheduler) loop() {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	// First check right away so RunAtStart jobs fire without waiting a tick.
	s.checkDue()

	for {
		select {
		case <-ticker.C:
			s.checkDue()
		case <-s.stopChan:
			return
		}
	}
}

func (s *Scheduler) checkDue() {
	now := time.Now().UTC()

	s.mu.RLock()
	jobs := make([]*Job, len(s.jobs))
	copy(jobs, s.jobs)
	s.mu.RUnlock()

	for _, job := range jobs {
		job.mu.Lock()
		due := !now.Before(job.nextRun) && !job.running
		if due {
			job.running = true
		}
		job.mu.Unlock()

		if due {
			s.wg.Add(1)
			go s.run(job)
		}
	}
}

func (s *Scheduler) run(job *Job) {
	defer s.wg.Done()

	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if s.logger != nil {
		s.logger.Info("scheduler: job starting", applogger.String("job", job.Name))
	}
	start := time.Now()

	err := job.Handler(ctx)

	elapsed := time.Since(start)

	job.mu.Lock()
	job.lastRun = start
	job.lastErr = err
	job.runs++
	job.running = false
	job.nextRun = job.Schedule.nextRun(time.Now().UTC())
	nextRun := job.nextRun
	job.mu.Unlock()

	if s.logger == nil {
		return
	}
	if err != nil {
		s.logger.Error("scheduler: job failed",
			applogger.String("job", job.Name),
			applogger.Duration("elapsed_ms", elapsed),
			applogger.Error(err),
		)
		return
	}
	s.logger.Info("scheduler: job finished",
		applogger.String("job", job.Name),
		applogger.Duration("elapsed_ms", elapsed),
		applogger.String("next_run", nextRun.Format(time.RFC3339)),
	)
}
