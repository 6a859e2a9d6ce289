package dispatch

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"casewatch/internal/eventstore"
	notifmodels "casewatch/internal/notification/models"
	notifservice "casewatch/internal/notification/service"
	id "casewatch/pkg/domain"
)

type stubSender struct {
	mu         sync.Mutex
	sent       []SendEmailCommand
	statusCode int
	err        error
}

func (s *stubSender) Send(_ context.Context, cmd SendEmailCommand) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, cmd)
	return s.statusCode, s.err
}

type WorkerSuite struct {
	suite.Suite
	store         *eventstore.InMemory
	notifications *notifservice.Service
	queue         *MemoryQueue
	sender        *stubSender
	worker        *Worker
}

func (s *WorkerSuite) SetupTest() {
	s.store = eventstore.NewInMemory()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.notifications = notifservice.New(s.store, logger, nil)
	s.queue = NewMemoryQueue(8)
	s.sender = &stubSender{statusCode: 200}
	s.worker = NewWorker(s.queue, s.sender, s.notifications, logger, nil)
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

// runUntil runs the worker until the probe reports done or the deadline hits.
func (s *WorkerSuite) runUntil(probe func() bool) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.worker.Run(ctx)
	}()

	deadline := time.After(3 * time.Second)
	for !probe() {
		select {
		case <-deadline:
			cancel()
			<-done
			s.FailNow("worker did not reach expected state in time")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done
}

func (s *WorkerSuite) notificationStatus(notifID id.NotificationID) (notifmodels.Status, bool) {
	notif, err := s.notifications.Get(context.Background(), notifID)
	if err != nil {
		return "", false
	}
	return notif.Status, true
}

func (s *WorkerSuite) TestSuccessfulSendCompletesNotification() {
	cmd := testCommand("hearing resulted")
	s.Require().NoError(s.queue.Enqueue(context.Background(), cmd))

	s.runUntil(func() bool {
		status, ok := s.notificationStatus(cmd.NotificationID)
		return ok && status == notifmodels.StatusSucceeded
	})

	s.Require().Len(s.sender.sent, 1)
	s.Equal(cmd.Recipient, s.sender.sent[0].Recipient)
}

func (s *WorkerSuite) TestFailedSendRecordsFailure() {
	s.sender.statusCode = 503
	s.sender.err = errors.New("provider unavailable")

	cmd := testCommand("hearing resulted")
	s.Require().NoError(s.queue.Enqueue(context.Background(), cmd))

	s.runUntil(func() bool {
		status, ok := s.notificationStatus(cmd.NotificationID)
		return ok && status == notifmodels.StatusFailed
	})

	notif, err := s.notifications.Get(context.Background(), cmd.NotificationID)
	s.Require().NoError(err)
	s.Equal("provider unavailable", notif.ErrorMessage)
	s.Equal(503, notif.StatusCode)
}

func (s *WorkerSuite) TestInvalidCommandIsDroppedWithoutSend() {
	cmd := testCommand("bad recipient")
	cmd.Recipient = "not-an-email"
	s.Require().NoError(s.queue.Enqueue(context.Background(), cmd))

	good := testCommand("good")
	s.Require().NoError(s.queue.Enqueue(context.Background(), good))

	s.runUntil(func() bool {
		status, ok := s.notificationStatus(good.NotificationID)
		return ok && status == notifmodels.StatusSucceeded
	})

	// The invalid command never reached the sender or the event log.
	s.Require().Len(s.sender.sent, 1)
	_, ok := s.notificationStatus(cmd.NotificationID)
	s.False(ok)
}

func (s *WorkerSuite) TestProcessesCommandsInQueueOrder() {
	first := testCommand("first")
	second := testCommand("second")
	s.Require().NoError(s.queue.Enqueue(context.Background(), first))
	s.Require().NoError(s.queue.Enqueue(context.Background(), second))

	s.runUntil(func() bool {
		status, ok := s.notificationStatus(second.NotificationID)
		return ok && status == notifmodels.StatusSucceeded
	})

	s.Require().Len(s.sender.sent, 2)
	s.Equal("first", s.sender.sent[0].Subject)
	s.Equal("second", s.sender.sent[1].Subject)
}
