package service

import (
	"context"

	"github.com/UnknownOlympus/places/internal/models"
	"github.com/stretchr/testify/mock"
)

type mockRepository struct {
	mock.Mock
}

func newMockRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockRepository {
	m := &mockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockRepository) FetchTasksForGeocoding(ctx context.Context, limit int) ([]models.Task, error) {
	args := m.Called(ctx, limit)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *mockRepository) FetchTasksForLabeling(ctx context.Context, limit int) ([]models.Task, error) {
	args := m.Called(ctx, limit)
	tasks, _ := args.Get(0).([]models.Task)
	return tasks, args.Error(1)
}

func (m *mockRepository) UpdateTaskLabel(ctx context.Context, taskID int, label string) error {
	return m.Called(ctx, taskID, label).Error(0)
}

func (m *mockRepository) UpdateTaskPlace(ctx context.Context, taskID int, place models.Place) error {
	return m.Called(ctx, taskID, place).Error(0)
}

func (m *mockRepository) IncrementFailureCount(ctx context.Context, taskID int, errMsg string) error {
	return m.Called(ctx, taskID, errMsg).Error(0)
}

type mockProvider struct {
	mock.Mock
}

func newMockProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *mockProvider {
	m := &mockProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *mockProvider) Geocode(ctx context.Context, address string) (*models.Place, error) {
	args := m.Called(ctx, address)
	place, _ := args.Get(0).(*models.Place)
	return place, args.Error(1)
}

func (m *mockProvider) Reverse(ctx context.Context, coords models.Coordinates) (*models.Place, error) {
	args := m.Called(ctx, coords)
	place, _ := args.Get(0).(*models.Place)
	return place, args.Error(1)
}
