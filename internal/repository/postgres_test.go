package repository_test

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/places/internal/models"
	"github.com/UnknownOlympus/places/internal/repository"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	fetchTasksQuery     = regexp.QuoteMeta("SELECT task_id, address")
	updatePlaceQuery    = regexp.QuoteMeta("geocoded_label = $3")
	incrementFailsQuery = regexp.QuoteMeta("geocoding_attempts = geocoding_attempts + 1")
	fetchLabelingQuery  = regexp.QuoteMeta("SELECT task_id, latitude, longitude")
	updateLabelQuery    = regexp.QuoteMeta("geocoded_label = $1")
)

func TestFetchTasksForGeocoding(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	limit := 10

	t.Run("error - query tasks", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(fetchTasksQuery).
			WithArgs(limit).
			WillReturnError(assert.AnError)

		tasks, err := repo.FetchTasksForGeocoding(ctx, limit)

		require.Nil(t, tasks)
		require.ErrorContains(t, err, "failed to query tasks for geocoding")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - scan task", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(fetchTasksQuery).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows([]string{"task_id", "address"}).AddRow("invalid_id", "valid address"),
			)

		tasks, err := repo.FetchTasksForGeocoding(ctx, limit)

		require.Nil(t, tasks)
		require.ErrorContains(t, err, "failed to scan task for geocoding")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - rows error", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(fetchTasksQuery).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows([]string{"task_id", "address"}).AddRow(7, "Kyiv, Khreshchatyk 1").
					RowError(1, assert.AnError),
			)

		tasks, err := repo.FetchTasksForGeocoding(ctx, limit)

		require.Nil(t, tasks)
		require.ErrorContains(t, err, "failed to read row")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - fetch tasks", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(fetchTasksQuery).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows([]string{"task_id", "address"}).
					AddRow(7, "Kyiv, Khreshchatyk 1").
					AddRow(8, "Lviv, Rynok Square"),
			)

		tasks, err := repo.FetchTasksForGeocoding(ctx, limit)

		require.NoError(t, err)
		assert.Equal(t, []models.Task{
			{ID: 7, Address: "Kyiv, Khreshchatyk 1"},
			{ID: 8, Address: "Lviv, Rynok Square"},
		}, tasks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateTaskPlace(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	taskID := 123
	place := models.Place{
		Coordinates: models.Coordinates{Latitude: 49.8419, Longitude: 24.0315},
		Label:       "Lviv, Ukraine",
	}

	t.Run("error - update task place", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(updatePlaceQuery).WithArgs(place.Latitude, place.Longitude, place.Label, taskID).
			WillReturnError(assert.AnError)

		err = repo.UpdateTaskPlace(ctx, taskID, place)

		require.ErrorContains(t, err, "failed to update task place")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - update task place", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(updatePlaceQuery).WithArgs(place.Latitude, place.Longitude, place.Label, taskID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = repo.UpdateTaskPlace(ctx, taskID, place)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestIncrementFailureCount(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	taskID := 123

	t.Run("error - increment failure count", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(incrementFailsQuery).WithArgs("error", taskID).
			WillReturnError(assert.AnError)

		err = repo.IncrementFailureCount(ctx, taskID, "error")

		require.ErrorContains(t, err, "failed to update geocoding error and number of attempts")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - increment failure count", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(incrementFailsQuery).WithArgs("error", taskID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = repo.IncrementFailureCount(ctx, taskID, "error")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFetchTasksForLabeling(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	limit := 10

	t.Run("error - query tasks", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(fetchLabelingQuery).WithArgs(limit).WillReturnError(assert.AnError)

		tasks, err := repo.FetchTasksForLabeling(ctx, limit)

		require.Nil(t, tasks)
		require.ErrorContains(t, err, "failed to query tasks for labeling")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - scan task", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(fetchLabelingQuery).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows([]string{"task_id", "latitude", "longitude"}).AddRow(7, "north", 30.52),
			)

		tasks, err := repo.FetchTasksForLabeling(ctx, limit)

		require.Nil(t, tasks)
		require.ErrorContains(t, err, "failed to scan task for labeling")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - fetch located tasks", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectQuery(fetchLabelingQuery).
			WithArgs(limit).
			WillReturnRows(
				pgxmock.NewRows([]string{"task_id", "latitude", "longitude"}).AddRow(7, 50.45, 30.52),
			)

		tasks, err := repo.FetchTasksForLabeling(ctx, limit)

		require.NoError(t, err)
		assert.Equal(t, []models.Task{
			{ID: 7, Coordinates: &models.Coordinates{Latitude: 50.45, Longitude: 30.52}},
		}, tasks)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUpdateTaskLabel(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	taskID := 42

	t.Run("error - update task label", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(updateLabelQuery).WithArgs("Kyiv, Ukraine", taskID).WillReturnError(assert.AnError)

		err = repo.UpdateTaskLabel(ctx, taskID, "Kyiv, Ukraine")

		require.ErrorContains(t, err, "failed to update task label")
		require.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - update task label", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(updateLabelQuery).WithArgs("Kyiv, Ukraine", taskID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err = repo.UpdateTaskLabel(ctx, taskID, "Kyiv, Ukraine")

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
