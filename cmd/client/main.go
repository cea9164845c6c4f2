package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"notify-lab/domain"
	"notify-lab/domain/event"
	"notify-lab/infrastructure/sse"
	"notify-lab/projection"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `env:"NOTIFY_SERVER_URL,default=http://localhost:8080"`
	UserName  string `env:"NOTIFY_USER_NAME,default=guest"`
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run registers an identity, opens the event stream, and renders every frame
// until the server closes the stream or a termination signal arrives.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Register to obtain an identity for the stream.
	user, err := register(ctx, config.ServerURL, config.UserName)
	if err != nil {
		return exitRuntime, err
	}
	log.Info("Registered", "id", user.ID, "name", user.Name)

	// 4. Open the stream with the validated identity.
	streamURL := fmt.Sprintf("%s/events?id=%s&name=%s",
		config.ServerURL, url.QueryEscape(user.ID), url.QueryEscape(user.Name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, streamURL, nil)
	if err != nil {
		return exitRuntime, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not open stream at %s: %w", streamURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return exitRuntime, fmt.Errorf("stream rejected: %s", resp.Status)
	}

	log.Info("Connected, listening for events (Ctrl+C to quit)")

	// 5. Frame reception loop: every event feeds the local display models.
	timeline := projection.NewTimeline()
	roster := projection.NewRoster()
	reader := sse.NewReader(resp.Body)

	for {
		envelope, err := reader.Next()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				log.Info("Stream ended", "messages", len(timeline.Messages))
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("reading stream: %w", err)
		}

		evt, err := event.Decode(envelope)
		if err != nil {
			log.Warn("Skipping frame", "err", err)
			continue
		}

		timeline.Consume(evt)
		roster.Consume(evt)
		render(evt, roster)
	}
}

func register(ctx context.Context, baseURL, name string) (domain.User, error) {
	payload, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return domain.User{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/register", bytes.NewReader(payload))
	if err != nil {
		return domain.User{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return domain.User{}, fmt.Errorf("could not reach server at %s: %w", baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.User{}, fmt.Errorf("registration rejected: %s: %s", resp.Status, body)
	}

	var user domain.User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return domain.User{}, fmt.Errorf("decoding registration response: %w", err)
	}
	return user, nil
}

// render maps each event kind to its terminal output. The switch covers the
// full variant set so a new kind cannot slip through unrendered.
func render(evt event.Event, roster *projection.Roster) {
	switch e := evt.(type) {
	case event.UserJoined:
		color.Green.Printf("* %s joined\n", e.Name)
		renderRoster(roster)
	case event.UserLeft:
		color.Yellow.Printf("* %s left\n", e.Name)
		renderRoster(roster)
	case event.MessagePosted:
		color.Cyan.Printf("%s: ", e.Author.Name)
		fmt.Println(e.Content)
	}
}

func renderRoster(roster *projection.Roster) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"ID", "Name"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	table.AppendBulk(lo.Map(roster.Present(), func(u domain.User, _ int) []string {
		return []string{u.ID, u.Name}
	}))
	table.Render()
}
