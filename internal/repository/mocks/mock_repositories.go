package mocks

import (
	"context"

	"minutesapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockMinutesRepository struct {
	mock.Mock
}

func (m *MockMinutesRepository) Create(ctx context.Context, rec *model.MeetingRecord) (*model.MeetingRecord, error) {
	args := m.Called(ctx, rec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MeetingRecord), args.Error(1)
}

func (m *MockMinutesRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.MeetingRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MeetingRecord), args.Error(1)
}

type MockTranscriptionRepository struct {
	mock.Mock
}

func (m *MockTranscriptionRepository) Create(ctx context.Context, tr *model.Transcription) (*model.Transcription, error) {
	args := m.Called(ctx, tr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transcription), args.Error(1)
}

func (m *MockTranscriptionRepository) FindLatest(ctx context.Context, ownerID, filename string) (*model.Transcription, error) {
	args := m.Called(ctx, ownerID, filename)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Transcription), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
