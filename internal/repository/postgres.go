package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/places/internal/models"
)

// FetchTasksForGeocoding retrieves a list of tasks that require geocoding.
// It returns open tasks with a NULL latitude, a non-empty address and fewer than
// 5 geocoding attempts, oldest first, limited to the specified count.
func (r *Repository) FetchTasksForGeocoding(ctx context.Context, limit int) ([]models.Task, error) {
	var tasks []models.Task
	query := `
		SELECT task_id, address
		FROM public.tasks
		WHERE
			latitude IS NULL
			AND is_closed = false
			AND geocoding_attempts < 5
			AND address IS NOT NULL AND address <> ''
		ORDER BY created_at ASC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for geocoding: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var task models.Task
		if errScan := rows.Scan(&task.ID, &task.Address); errScan != nil {
			return nil, fmt.Errorf("failed to scan task for geocoding: %w", errScan)
		}
		r.log.DebugContext(ctx, "Fetched task without coordinates", "ID", task.ID, "Address", task.Address)
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return tasks, nil
}

// FetchTasksForLabeling retrieves open tasks that already have coordinates
// but no geocoded label, oldest first.
func (r *Repository) FetchTasksForLabeling(ctx context.Context, limit int) ([]models.Task, error) {
	var tasks []models.Task
	query := `
		SELECT task_id, latitude, longitude
		FROM public.tasks
		WHERE
			latitude IS NOT NULL
			AND longitude IS NOT NULL
			AND geocoded_label IS NULL
			AND is_closed = false
			AND geocoding_attempts < 5
		ORDER BY created_at ASC
		LIMIT $1;
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks for labeling: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			task   models.Task
			coords models.Coordinates
		)
		if errScan := rows.Scan(&task.ID, &coords.Latitude, &coords.Longitude); errScan != nil {
			return nil, fmt.Errorf("failed to scan task for labeling: %w", errScan)
		}
		task.Coordinates = &coords
		r.log.DebugContext(ctx, "Fetched task without label", "ID", task.ID,
			"lat", coords.Latitude, "lon", coords.Longitude)
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return tasks, nil
}

// UpdateTaskPlace stores the geocoded coordinates and label of a task and clears
// its last geocoding error.
func (r *Repository) UpdateTaskPlace(ctx context.Context, taskID int, place models.Place) error {
	query := `
		UPDATE public.tasks
		SET
			latitude = $1,
			longitude = $2,
			geocoded_label = $3,
			geocoding_error = NULL
		WHERE
			task_id = $4;
	`

	_, err := r.db.Exec(ctx, query, place.Latitude, place.Longitude, place.Label, taskID)
	if err != nil {
		return fmt.Errorf("failed to update task place: %w", err)
	}

	return nil
}

// UpdateTaskLabel stores the label found for a task's existing coordinates.
func (r *Repository) UpdateTaskLabel(ctx context.Context, taskID int, label string) error {
	query := `
		UPDATE public.tasks
		SET
			geocoded_label = $1,
			geocoding_error = NULL
		WHERE
			task_id = $2;
	`

	_, err := r.db.Exec(ctx, query, label, taskID)
	if err != nil {
		return fmt.Errorf("failed to update task label: %w", err)
	}

	return nil
}

// IncrementFailureCount increments the geocoding attempt count for a task and
// records the error message of the failed attempt.
func (r *Repository) IncrementFailureCount(ctx context.Context, taskID int, errMsg string) error {
	query := `
		UPDATE public.tasks
		SET
			geocoding_attempts = geocoding_attempts + 1,
			geocoding_error = $1
		WHERE task_id = $2;
	`

	_, err := r.db.Exec(ctx, query, errMsg, taskID)
	if err != nil {
		return fmt.Errorf("failed to update geocoding error and number of attempts: %w", err)
	}

	return nil
}
