package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/places/internal/geocoding"
	"github.com/UnknownOlympus/places/internal/metrics"
	"github.com/UnknownOlympus/places/internal/models"
	"github.com/UnknownOlympus/places/internal/repository"
)

const taskLimit = 100

// GeocodingService periodically geocodes pending tasks through a pool of workers.
type GeocodingService struct {
	log           *slog.Logger         // Logger for logging service activities
	repo          repository.Interface // Interface for data repository access
	provider      geocoding.Provider   // Geocoding provider for external geocoding services
	metrics       *metrics.Metrics     // Metrics for tracking service performance
	numWorkers    int                  // Number of concurrent workers for processing
	pollInterval  time.Duration        // Interval for polling geocoding updates
	addressPrefix string               // Prepended to every address (country, city, etc.)
}

// NewGeocodingService creates a new instance of GeocodingService.
func NewGeocodingService(
	log *slog.Logger,
	repo repository.Interface,
	provider geocoding.Provider,
	metrics *metrics.Metrics,
	numWorkers int,
	pollInterval time.Duration,
	addressPrefix string,
) *GeocodingService {
	return &GeocodingService{
		log:           log,
		repo:          repo,
		provider:      provider,
		metrics:       metrics,
		numWorkers:    max(numWorkers, 1),
		pollInterval:  pollInterval,
		addressPrefix: addressPrefix,
	}
}

// Run polls for new tasks every pollInterval until ctx is cancelled.
func (gs *GeocodingService) Run(ctx context.Context) {
	ticker := time.NewTicker(gs.pollInterval)
	defer ticker.Stop()

	gs.log.InfoContext(ctx, "Geocoding service started...")

	for {
		select {
		case <-ctx.Done():
			gs.log.InfoContext(ctx, "Geocoding service stopped.")
			return
		case <-ticker.C:
			gs.log.InfoContext(ctx, "Polling for new tasks to geocode...")
			gs.processTasks(ctx)
		}
	}
}

// processTasks fetches a batch of tasks to geocode and a batch of located tasks
// missing a label, fans them out to the workers and returns once both are done.
func (gs *GeocodingService) processTasks(ctx context.Context) {
	var tasks []models.Task

	pending, err := gs.repo.FetchTasksForGeocoding(ctx, taskLimit)
	if err != nil {
		gs.log.ErrorContext(ctx, "Failed to fetch tasks", "error", err)
	}
	tasks = append(tasks, pending...)

	unlabeled, err := gs.repo.FetchTasksForLabeling(ctx, taskLimit)
	if err != nil {
		gs.log.ErrorContext(ctx, "Failed to fetch tasks for labeling", "error", err)
	}
	tasks = append(tasks, unlabeled...)

	if len(tasks) == 0 {
		gs.log.InfoContext(ctx, "No tasks to process.")
		return
	}

	gs.log.InfoContext(ctx, "Found tasks to process. Starting worker pool.",
		"geocode", len(pending),
		"label", len(unlabeled),
		"num_workers", gs.numWorkers,
	)

	jobs := make(chan models.Task, len(tasks))
	var wgr sync.WaitGroup

	for i := 1; i <= gs.numWorkers; i++ {
		wgr.Add(1)
		go gs.worker(ctx, i, &wgr, jobs)
	}

	for _, task := range tasks {
		jobs <- task
	}
	close(jobs)

	wgr.Wait()
	gs.log.InfoContext(ctx, "Processing batch finished")
}

func (gs *GeocodingService) worker(ctx context.Context, idx int, wg *sync.WaitGroup, jobs <-chan models.Task) {
	defer wg.Done()
	for task := range jobs {
		gs.metrics.ActiveWorkers.Inc()
		if task.Coordinates != nil {
			gs.labelTask(ctx, idx, task)
		} else {
			gs.geocodeTask(ctx, idx, task)
		}
		gs.metrics.ActiveWorkers.Dec()
	}
}

func (gs *GeocodingService) geocodeTask(ctx context.Context, idx int, task models.Task) {
	gs.log.DebugContext(ctx, "Geocoding task", "worker", idx, "task", task.ID)

	place, err := gs.provider.Geocode(ctx, gs.addressPrefix+task.Address)
	if err != nil {
		gs.fail(ctx, idx, task, err)
		return
	}

	gs.metrics.TaskProcessed.WithLabelValues("success").Inc()

	if err = gs.repo.UpdateTaskPlace(ctx, task.ID, *place); err != nil {
		gs.log.ErrorContext(ctx, "Failed to update place for task", "worker", idx, "task", task.ID, "error", err)
		return
	}

	gs.log.DebugContext(ctx, "Worker successfully processed the task", "worker", idx, "task", task.ID,
		"label", place.Label)
}

// labelTask reverse geocodes a task's stored coordinates. The coordinates are
// kept; only the label is written back.
func (gs *GeocodingService) labelTask(ctx context.Context, idx int, task models.Task) {
	gs.log.DebugContext(ctx, "Labeling task", "worker", idx, "task", task.ID)

	place, err := gs.provider.Reverse(ctx, *task.Coordinates)
	if err != nil {
		gs.fail(ctx, idx, task, err)
		return
	}

	gs.metrics.TaskProcessed.WithLabelValues("success").Inc()

	if err = gs.repo.UpdateTaskLabel(ctx, task.ID, place.Label); err != nil {
		gs.log.ErrorContext(ctx, "Failed to update label for task", "worker", idx, "task", task.ID, "error", err)
		return
	}

	gs.log.DebugContext(ctx, "Worker successfully labeled the task", "worker", idx, "task", task.ID,
		"label", place.Label)
}

func (gs *GeocodingService) fail(ctx context.Context, idx int, task models.Task, err error) {
	gs.log.ErrorContext(ctx, "Failed to geocode", "worker", idx, "task", task.ID, "error", err)
	gs.metrics.TaskProcessed.WithLabelValues("failure").Inc()

	if err = gs.repo.IncrementFailureCount(ctx, task.ID, err.Error()); err != nil {
		gs.log.ErrorContext(ctx, "Could not update failure count for task",
			"worker", idx, "task", task.ID, "error", err)
	}
}
