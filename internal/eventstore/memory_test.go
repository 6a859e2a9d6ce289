package eventstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"casewatch/pkg/platform/sentinel"
)

type fakeEvent struct {
	Tag  string `json:"-"`
	Name string `json:"name"`
}

func (e *fakeEvent) EventType() string { return e.Tag }

type InMemorySuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemory
}

func (s *InMemorySuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemory()
}

func TestInMemorySuite(t *testing.T) {
	suite.Run(t, new(InMemorySuite))
}

func (s *InMemorySuite) TestAppendAndLoadRoundTrip() {
	err := s.store.Append(s.ctx, "stream-1", 0, []Event{
		&fakeEvent{Tag: "created", Name: "a"},
		&fakeEvent{Tag: "updated", Name: "b"},
	})
	s.Require().NoError(err)

	history, version, err := s.store.Load(s.ctx, "stream-1")
	s.Require().NoError(err)
	s.EqualValues(2, version)
	s.Require().Len(history, 2)
	s.EqualValues(1, history[0].Version)
	s.EqualValues(2, history[1].Version)
	s.Equal("created", history[0].Type)
	s.Equal("a", history[0].Event.(*fakeEvent).Name)
	s.False(history[0].RecordedAt.IsZero())
}

func (s *InMemorySuite) TestStaleVersionIsRejected() {
	s.Require().NoError(s.store.Append(s.ctx, "stream-1", 0, []Event{&fakeEvent{Tag: "created"}}))

	err := s.store.Append(s.ctx, "stream-1", 0, []Event{&fakeEvent{Tag: "updated"}})
	s.Require().ErrorIs(err, sentinel.ErrStaleVersion)

	// The losing append left the stream untouched.
	history, version, err := s.store.Load(s.ctx, "stream-1")
	s.Require().NoError(err)
	s.EqualValues(1, version)
	s.Len(history, 1)
}

func (s *InMemorySuite) TestEmptyAppendIsNoOp() {
	s.Require().NoError(s.store.Append(s.ctx, "stream-1", 0, nil))

	_, version, err := s.store.Load(s.ctx, "stream-1")
	s.Require().NoError(err)
	s.Zero(version)
}

func (s *InMemorySuite) TestStreamsAreIsolated() {
	s.Require().NoError(s.store.Append(s.ctx, "stream-1", 0, []Event{&fakeEvent{Tag: "created"}}))
	s.Require().NoError(s.store.Append(s.ctx, "stream-2", 0, []Event{&fakeEvent{Tag: "created"}}))

	_, version, err := s.store.Load(s.ctx, "stream-1")
	s.Require().NoError(err)
	s.EqualValues(1, version)
}

func (s *InMemorySuite) TestSubscribersSeeAppendsInOrder() {
	var seen []Envelope
	s.store.Subscribe(func(env Envelope) { seen = append(seen, env) })

	s.Require().NoError(s.store.Append(s.ctx, "stream-1", 0, []Event{
		&fakeEvent{Tag: "created"},
		&fakeEvent{Tag: "updated"},
	}))
	s.Require().NoError(s.store.Append(s.ctx, "stream-2", 0, []Event{&fakeEvent{Tag: "created"}}))

	s.Require().Len(seen, 3)
	s.Equal("stream-1", seen[0].StreamID)
	s.Equal("stream-1", seen[1].StreamID)
	s.Equal("stream-2", seen[2].StreamID)
	s.EqualValues(1, seen[0].GlobalSeq)
	s.EqualValues(2, seen[1].GlobalSeq)
	s.EqualValues(3, seen[2].GlobalSeq)
}

func (s *InMemorySuite) TestSubscriberMayReadBackFromStore() {
	var version int64
	s.store.Subscribe(func(env Envelope) {
		_, v, err := s.store.Load(context.Background(), env.StreamID)
		s.Require().NoError(err)
		version = v
	})

	s.Require().NoError(s.store.Append(s.ctx, "stream-1", 0, []Event{&fakeEvent{Tag: "created"}}))
	s.EqualValues(1, version)
}

func (s *InMemorySuite) TestReplayAllFeedsGlobalLog() {
	s.Require().NoError(s.store.Append(s.ctx, "stream-1", 0, []Event{&fakeEvent{Tag: "created"}}))
	s.Require().NoError(s.store.Append(s.ctx, "stream-2", 0, []Event{&fakeEvent{Tag: "created"}}))
	s.Require().NoError(s.store.Append(s.ctx, "stream-1", 1, []Event{&fakeEvent{Tag: "updated"}}))

	var tags []string
	s.store.ReplayAll(func(env Envelope) { tags = append(tags, env.StreamID+"/"+env.Type) })
	s.Equal([]string{"stream-1/created", "stream-2/created", "stream-1/updated"}, tags)
}
