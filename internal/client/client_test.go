package client

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lox/blackjack/internal/display"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startServer(t *testing.T, cfg server.Config) (*server.Table, string) {
	t.Helper()
	table := server.NewTable(cfg, nil, nil)
	srv := httptest.NewServer(server.NewServer("", table, nil).Handler())
	t.Cleanup(srv.Close)
	return table, srv.URL
}

func waitForSeat(t *testing.T, table *server.Table) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, connected := table.Seats()
		return connected == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "http://localhost:8080", want: "ws://localhost:8080/ws"},
		{input: "https://cards.example.com", want: "wss://cards.example.com/ws"},
		{input: "ws://localhost:8080/anything", want: "ws://localhost:8080/ws"},
		{input: "localhost:8080", want: "ws://localhost:8080/ws"},
		{input: "ftp://localhost", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := WebSocketURL(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAutoClientPlaysRounds(t *testing.T) {
	table, url := startServer(t, server.Config{MaxRounds: 2})
	out := &syncBuffer{}
	c := New(Config{URL: url, Name: "Alice", Auto: true}, nil, out, display.NewStyles(out, false), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clientDone := make(chan error, 1)
	go func() { clientDone <- c.Run(ctx) }()

	waitForSeat(t, table)
	require.NoError(t, table.Run(ctx, game.New(randutil.New(4), game.WithObserver(table))))

	require.Eventually(t, func() bool {
		return strings.Count(out.String(), "the dealer") >= 2
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-clientDone:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop after cancel")
	}

	text := out.String()
	assert.Contains(t, text, "Seated as Alice (seat 1 of 4)")
	assert.Contains(t, text, "Round 1")
	assert.Contains(t, text, "Round 2")
	assert.Contains(t, text, "Points: ?", "the dealer's hole card is hidden during play")
}

func TestInteractiveClientReprompts(t *testing.T) {
	table, url := startServer(t, server.Config{MaxRounds: 1})
	out := &syncBuffer{}
	in := strings.NewReader("double\ns\n")
	c := New(Config{URL: url, Name: "Bob"}, in, out, display.NewStyles(out, false), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	clientDone := make(chan error, 1)
	go func() { clientDone <- c.Run(ctx) }()

	waitForSeat(t, table)
	require.NoError(t, table.Run(ctx, game.New(randutil.New(8), game.WithObserver(table))))

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "the dealer")
	}, 5*time.Second, 10*time.Millisecond)

	text := out.String()
	assert.Contains(t, text, "Unrecognised action, type s or h.")
	assert.Contains(t, text, "Bob stands on")

	cancel()
	<-clientDone
}

func TestJoinRefused(t *testing.T) {
	table, url := startServer(t, server.Config{Seats: 1})
	first := New(Config{URL: url, Name: "Alice", Auto: true}, nil, &syncBuffer{}, display.NewStyles(&bytes.Buffer{}, false), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = first.Run(ctx) }()
	waitForSeat(t, table)

	out := &syncBuffer{}
	second := New(Config{URL: url, Name: "Alice", Auto: true}, nil, out, display.NewStyles(out, false), nil)
	err := second.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "join refused")
}

func TestRunBadURL(t *testing.T) {
	c := New(Config{URL: "ftp://nowhere", Name: "Alice"}, nil, &bytes.Buffer{}, display.NewStyles(&bytes.Buffer{}, false), nil)
	assert.Error(t, c.Run(context.Background()))
}
