package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/fairway/competitions/internal/domain"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) GetEnrollmentStats(ctx context.Context, competitionID uuid.UUID) ([]*domain.EnrollmentStatusStat, error) {
	args := m.Called(ctx, competitionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.EnrollmentStatusStat), args.Error(1)
}

func (m *MockStatsRepository) GetCompetitionStatsByStatus(ctx context.Context, creatorID uuid.UUID) ([]*domain.CompetitionStatusStat, error) {
	args := m.Called(ctx, creatorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CompetitionStatusStat), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...domain.Event) {
	m.Called(ctx, events)
}
