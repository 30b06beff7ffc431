package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockReminders struct{ mock.Mock }

func (m *mockReminders) SendDueReminders(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func TestNewScheduler_RejectsBadExpression(t *testing.T) {
	_, err := NewScheduler("every tuesday", &mockReminders{}, zap.NewNop())
	assert.Error(t, err)
}

func TestRunOnce_HasDeadline(t *testing.T) {
	reminders := &mockReminders{}
	reminders.On("SendDueReminders", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return(3, nil).Once()

	s, err := NewScheduler("@every 15m", reminders, zap.NewNop())
	require.NoError(t, err)

	s.RunOnce()
	reminders.AssertExpectations(t)
}

func TestRunOnce_ErrorIsLogged(t *testing.T) {
	reminders := &mockReminders{}
	reminders.On("SendDueReminders", mock.Anything).Return(0, errors.New("db down")).Once()

	s, err := NewScheduler("@every 15m", reminders, zap.NewNop())
	require.NoError(t, err)

	assert.NotPanics(t, s.RunOnce)
	reminders.AssertExpectations(t)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler("@every 1h", &mockReminders{}, zap.NewNop())
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
