package e2e

import (
	"testing"
	"time"

	"notify-lab/domain/event"

	"github.com/stretchr/testify/suite"
)

type BroadcastSuite struct {
	BaseHTTPSuite
}

func TestBroadcastSuite(t *testing.T) {
	suite.Run(t, new(BroadcastSuite))
}

// next reads one frame and decodes it, dumping it when E2E_DEBUG_FRAMES is set.
func (s *BroadcastSuite) next(stream *Stream) event.Event {
	env, err := stream.Reader.Next()
	s.Require().NoError(err)
	if s.Config.DebugFrames {
		s.T().Logf("FRAME %s %s", env.Type, env.Data)
	}

	evt, err := event.Decode(env)
	s.Require().NoError(err)
	return evt
}

func (s *BroadcastSuite) TestFullConversationLifecycle() {
	s.Step("Alice registers and opens her stream")
	alice := s.RegisterUser("Alice")
	s.Require().NotEmpty(alice.ID)
	aliceStream := s.OpenStream(alice)
	defer aliceStream.Close()

	s.Step("Bob registers: Alice sees him join")
	bob := s.RegisterUser("Bob")
	joined, ok := s.next(aliceStream).(event.UserJoined)
	s.Require().True(ok)
	s.Require().Equal(bob, joined.User)

	s.Step("Bob opens his stream")
	bobStream := s.OpenStream(bob)

	s.Step("Alice posts: both streams observe the message, Alice included")
	s.PostMessage(alice, "hello everyone")

	for _, stream := range []*Stream{aliceStream, bobStream} {
		posted, ok := s.next(stream).(event.MessagePosted)
		s.Require().True(ok)
		s.Require().NotEmpty(posted.ID)
		s.Require().Equal("Alice", posted.Author.Name)
		s.Require().Equal("hello everyone", posted.Content)
	}

	s.Step("Bob disconnects: Alice sees exactly one leave")
	bobStream.Close()

	left, ok := s.next(aliceStream).(event.UserLeft)
	s.Require().True(ok)
	s.Require().Equal(bob, left.User)

	s.Require().Eventually(func() bool {
		return s.monitor.GetLatest().OpenStreams == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func (s *BroadcastSuite) TestLateSubscriberGetsNoReplay() {
	s.Step("Alice registers and posts before anyone listens")
	alice := s.RegisterUser("Alice")
	s.PostMessage(alice, "into the void")

	s.Step("Alice then opens her stream and Bob registers")
	aliceStream := s.OpenStream(alice)
	defer aliceStream.Close()
	bob := s.RegisterUser("Bob")

	s.Step("The first frame is Bob's join, not a replay of the old message")
	joined, ok := s.next(aliceStream).(event.UserJoined)
	s.Require().True(ok)
	s.Require().Equal(bob, joined.User)
}
