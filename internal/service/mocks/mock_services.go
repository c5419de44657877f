package mocks

import (
	"context"
	"io"

	"minutesapi/internal/model"
	"minutesapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockMinutesService struct {
	mock.Mock
}

func (m *MockMinutesService) Transcribe(ctx context.Context, r io.Reader, originalFilename, ownerID string, size int64) (*service.TranscribeResult, error) {
	args := m.Called(ctx, r, originalFilename, ownerID, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TranscribeResult), args.Error(1)
}

func (m *MockMinutesService) Summarize(ctx context.Context, ownerID, audioFileName string) (*service.SummarizeResult, error) {
	args := m.Called(ctx, ownerID, audioFileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SummarizeResult), args.Error(1)
}

func (m *MockMinutesService) ListMinutes(ctx context.Context, ownerID string) ([]model.MeetingRecord, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MeetingRecord), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}
