package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	domainerrors "aimarket/contexts/asset-exchange/model-marketplace/domain/errors"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

type levelRecorder struct {
	mu     sync.Mutex
	levels map[string]slog.Level
}

func (h *levelRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *levelRecorder) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == "event" {
			h.levels[attr.Value.String()] = record.Level
			return false
		}
		return true
	})
	return nil
}

func (h *levelRecorder) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *levelRecorder) WithGroup(string) slog.Handler      { return h }

type failingRegistry struct {
	ports.TokenRegistry
	err error
}

func (r failingRegistry) MintToken(context.Context, ports.MintTokenInput) (entities.Token, error) {
	return entities.Token{}, r.err
}

type fixedID string

func (id fixedID) NewID(context.Context) (string, error) { return string(id), nil }

func TestMintFailureLogLevel(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want slog.Level
	}{
		{name: "rule violation", err: domainerrors.ErrInvalidInput, want: slog.LevelWarn},
		{name: "store fault", err: errors.New("disk full"), want: slog.LevelError},
	}
	for _, tc := range cases {
		recorder := &levelRecorder{levels: make(map[string]slog.Level)}
		useCase := MintTokenUseCase{
			Tokens:      failingRegistry{err: tc.err},
			IDGenerator: fixedID("evt-1"),
			Logger:      slog.New(recorder),
		}

		_, err := useCase.Execute(context.Background(), MintTokenCommand{Owner: "alice", ContentURI: "ipfs://x"})
		if !errors.Is(err, tc.err) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.err, err)
		}
		got, ok := recorder.levels["mint_token_failed"]
		if !ok {
			t.Fatalf("%s: expected mint_token_failed log", tc.name)
		}
		if got != tc.want {
			t.Fatalf("%s: expected level %s, got %s", tc.name, tc.want, got)
		}
	}
}
