package mocks

import (
	"context"

	"minutesapi/internal/speech"

	"github.com/stretchr/testify/mock"
)

type MockRecognizer struct {
	mock.Mock
}

func (m *MockRecognizer) Recognize(ctx context.Context, uri string) ([]speech.Word, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]speech.Word), args.Error(1)
}
