package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	robfig "github.com/robfig/cron/v3"
)

// JobStatus represents the last known state of a job.
type JobStatus string

const (
	StatusIdle    JobStatus = "idle"
	StatusRunning JobStatus = "running"
	StatusFulfill JobStatus = "fulfill"
	StatusReject  JobStatus = "reject"
)

// Job defines a scheduled background task. Spec is a standard five-field
// cron expression.
type Job struct {
	Name        string
	Description string
	Spec        string
	Fn          func(ctx context.Context) error
}

// JobState holds runtime state for a registered job.
type JobState struct {
	Job
	schedule  robfig.Schedule
	Status    JobStatus
	Message   string
	LastRunAt *time.Time
	NextRunAt time.Time
	mu        sync.Mutex
}

// ListItem is the serializable representation of a job for the API.
type ListItem struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      JobStatus  `json:"status"`
	NextDate    time.Time  `json:"nextDate"`
	LastRunAt   *time.Time `json:"lastRunAt,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// Scheduler manages a collection of named cron jobs.
type Scheduler struct {
	mu   sync.RWMutex
	jobs map[string]*JobState
	now  func() time.Time
}

// New creates an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]*JobState), now: time.Now}
}

// Register adds a job to the scheduler. Must be called before Start.
func (s *Scheduler) Register(job Job) error {
	schedule, err := robfig.ParseStandard(job.Spec)
	if err != nil {
		return fmt.Errorf("job %q: invalid spec %q: %w", job.Name, job.Spec, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = &JobState{
		Job:       job,
		schedule:  schedule,
		Status:    StatusIdle,
		NextRunAt: schedule.Next(s.now()),
	}
	return nil
}

// Start launches all registered jobs in background goroutines.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, js := range s.jobs {
		go s.runLoop(ctx, js)
	}
}

func (s *Scheduler) runLoop(ctx context.Context, js *JobState) {
	for {
		js.mu.Lock()
		wait := js.NextRunAt.Sub(s.now())
		js.mu.Unlock()
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.execute(ctx, js)
			js.mu.Lock()
			js.NextRunAt = js.schedule.Next(s.now())
			js.mu.Unlock()
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, js *JobState) {
	js.mu.Lock()
	if js.Status == StatusRunning {
		js.mu.Unlock()
		return
	}
	js.Status = StatusRunning
	js.mu.Unlock()

	now := s.now()
	err := js.Fn(ctx)

	js.mu.Lock()
	js.LastRunAt = &now
	if err != nil {
		js.Status = StatusReject
		js.Message = err.Error()
	} else {
		js.Status = StatusFulfill
		js.Message = ""
	}
	js.mu.Unlock()
}

// Run triggers a job by name and blocks until it finishes.
func (s *Scheduler) Run(ctx context.Context, name string) error {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	s.execute(ctx, js)
	return nil
}

// Has reports whether a job named name is registered.
func (s *Scheduler) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.jobs[name]
	return ok
}

// List returns a summary of all registered jobs.
func (s *Scheduler) List() []ListItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ListItem, 0, len(s.jobs))
	for _, js := range s.jobs {
		js.mu.Lock()
		items = append(items, ListItem{
			Name:        js.Name,
			Description: js.Description,
			Status:      js.Status,
			NextDate:    js.NextRunAt,
			LastRunAt:   js.LastRunAt,
			Message:     js.Message,
		})
		js.mu.Unlock()
	}
	return items
}
