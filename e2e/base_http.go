package e2e

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"notify-lab/domain"
	"notify-lab/infrastructure/httpapi"
	"notify-lab/infrastructure/sse"
	"notify-lab/observability"
	"notify-lab/runtime"
	"notify-lab/services"

	"github.com/gookit/color"
	"github.com/stretchr/testify/suite"
)

// BaseHTTPSuite spins up the full notification stack behind an in-process
// HTTP server and offers helpers for the scenario tests.
type BaseHTTPSuite struct {
	suite.Suite
	Config Config

	ts      *httptest.Server
	monitor *observability.Monitor
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseHTTPSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseHTTPSuite) SetupTest() {
	log := slog.Default()
	s.monitor = observability.NewMonitor()
	bus := runtime.NewEventBus(log, s.monitor)
	service := services.NewNotifyService(log, bus, s.monitor)
	server := httpapi.NewServer(log, bus, service, s.monitor)
	s.ts = httptest.NewServer(server.Routes())
}

func (s *BaseHTTPSuite) TearDownTest() {
	s.ts.Close()
}

// Step prints a colorized header for a scenario step in the test logs.
func (s *BaseHTTPSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// RegisterUser registers name and returns the minted identity.
func (s *BaseHTTPSuite) RegisterUser(name string) domain.User {
	body := fmt.Sprintf(`{"name":%q}`, name)
	resp, err := http.Post(s.ts.URL+"/register", "application/json", strings.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var user domain.User
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&user))
	return user
}

// Stream is one open consumer connection, frame reader included.
type Stream struct {
	Reader *sse.Reader
	resp   *http.Response
}

func (c *Stream) Close() {
	_ = c.resp.Body.Close()
}

// OpenStream opens the event stream for user and waits until the server has
// registered the subscription.
func (s *BaseHTTPSuite) OpenStream(user domain.User) *Stream {
	before := s.monitor.GetLatest().OpenStreams

	streamURL := fmt.Sprintf("%s/events?id=%s&name=%s",
		s.ts.URL, url.QueryEscape(user.ID), url.QueryEscape(user.Name))
	resp, err := http.Get(streamURL)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	s.Require().Eventually(func() bool {
		return s.monitor.GetLatest().OpenStreams > before
	}, 2*time.Second, 10*time.Millisecond)

	return &Stream{Reader: sse.NewReader(resp.Body), resp: resp}
}

// PostMessage posts content as user and asserts the empty acknowledgment.
func (s *BaseHTTPSuite) PostMessage(user domain.User, content string) {
	body := fmt.Sprintf(`{"user":{"id":%q,"name":%q},"message":%q}`, user.ID, user.Name, content)
	resp, err := http.Post(s.ts.URL+"/message", "application/json", strings.NewReader(body))
	s.Require().NoError(err)
	resp.Body.Close()
	s.Require().Equal(http.StatusNoContent, resp.StatusCode)
}
