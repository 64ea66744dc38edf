// Package app wires the Riko assistant together: persistent store, session
// manager, conversation engine, voice bridge, and the terminal or Matrix
// front end.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/hoshinoki/riko/internal/riko/config"
	"github.com/hoshinoki/riko/internal/riko/engine"
	"github.com/hoshinoki/riko/internal/riko/llm"
	"github.com/hoshinoki/riko/internal/riko/matrix"
	"github.com/hoshinoki/riko/internal/riko/persona"
	"github.com/hoshinoki/riko/internal/riko/session"
	"github.com/hoshinoki/riko/internal/riko/sidecar"
	"github.com/hoshinoki/riko/internal/riko/store"
	"github.com/hoshinoki/riko/internal/riko/voice"
)

// Config holds application configuration
type Config struct {
	// DataDir is the directory holding chat_history.json, riko_memory.json,
	// and config.json. Defaults to "." when empty.
	DataDir string
	// PersonaPath points at a persona YAML document. When empty or missing,
	// the built-in persona is used.
	PersonaPath string
	// APIKey is the LLM provider API key. Required.
	APIKey string
	// Model and BaseURL override the LLM defaults when non-empty.
	Model   string
	BaseURL string
	// DisableVoice skips the VOICEVOX sidecar and disables speech output
	// regardless of the tts_enabled setting in config.json.
	DisableVoice bool
	// Recognizer is an optional speech-to-text backend for voice input.
	// When nil, voice input reports itself as unavailable.
	Recognizer voice.Recognizer
	// Matrix holds optional Matrix front-end configuration. When nil, Riko
	// runs the interactive terminal front end instead.
	Matrix *matrix.Config
}

// App is the assembled Riko assistant
type App struct {
	config   *Config
	settings *config.Config
	store    *store.Store
	sessions *session.Manager
	engine   *engine.Engine
	listener *voice.Listener
	sidecar  *sidecar.Manager
	matrix   *matrix.Client
	syncDB   *sql.DB

	speakerMu sync.Mutex
	speaker   voice.Speaker
}

// New creates a new Riko application
func New(cfg *Config) (*App, error) {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}

	st := store.New(dataDir)
	settings := config.Load(filepath.Join(dataDir, "config.json"))

	p, err := persona.Load(cfg.PersonaPath)
	if err != nil {
		return nil, fmt.Errorf("app: load persona: %w", err)
	}

	provider := llm.New(llm.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
	})

	app := &App{
		config:   cfg,
		settings: settings,
		store:    st,
		sessions: session.NewManager(st),
		engine:   engine.New(st, p, provider),
		listener: voice.NewListener(cfg.Recognizer),
	}

	// The sidecar manager is built only when speech output is wanted.
	// A missing Docker daemon is not fatal; Riko just stays silent.
	if settings.Voice.TTSEnabled && !cfg.DisableVoice {
		mgr, err := sidecar.New()
		if err != nil {
			slog.Warn("voicevox sidecar unavailable, speech disabled", "err", err)
		} else {
			app.sidecar = mgr
		}
	}

	// Matrix front end. The sync token lives in a small SQLite database so
	// restarts do not replay old room history.
	if cfg.Matrix != nil {
		syncDB, err := matrix.OpenSyncDB(filepath.Join(dataDir, "matrix-sync.db"))
		if err != nil {
			return nil, fmt.Errorf("app: open matrix sync db: %w", err)
		}
		matrixCfg := *cfg.Matrix
		matrixCfg.DB = syncDB
		slog.Info("connecting to Matrix", "homeserver", matrixCfg.Homeserver)
		client, err := matrix.New(&matrixCfg)
		if err != nil {
			syncDB.Close()
			return nil, fmt.Errorf("app: init matrix client: %w", err)
		}
		app.matrix = client
		app.syncDB = syncDB
	}

	return app, nil
}

// Run starts the Riko application and blocks until it exits.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.startVoice(ctx)

	if a.matrix != nil {
		return a.runMatrix(ctx, cancel)
	}
	return a.runTerminal(ctx)
}

// Stop releases resources held by the application.
func (a *App) Stop() {
	if a.matrix != nil {
		slog.Info("stopping Matrix client")
		a.matrix.Stop()
	}
	if a.syncDB != nil {
		a.syncDB.Close()
	}
}

// startVoice brings up the VOICEVOX sidecar in the background and attaches
// the speaker once the engine answers its readiness probe.
func (a *App) startVoice(ctx context.Context) {
	if a.sidecar == nil {
		return
	}
	go func() {
		if err := a.sidecar.Ensure(ctx); err != nil {
			slog.Warn("voicevox engine not ready, speech disabled", "err", err)
			return
		}
		a.speakerMu.Lock()
		a.speaker = voice.NewVoiceVox(voice.VoiceVoxConfig{})
		a.speakerMu.Unlock()
		slog.Info("voicevox engine ready", "port", sidecar.EnginePort)
	}()
}

// speak plays the reply through VOICEVOX when speech output is active.
// Playback runs in the caller's goroutine; front ends call it from their own.
func (a *App) speak(ctx context.Context, text string) {
	a.speakerMu.Lock()
	sp := a.speaker
	a.speakerMu.Unlock()
	if sp == nil {
		return
	}
	if err := sp.Speak(ctx, text); err != nil {
		slog.Warn("speech playback failed", "err", err)
	}
}

// reply runs one exchange through the engine and records both sides in the
// given session. The raw user text is stored; the language instruction is
// prepended only to what the model sees.
func (a *App) reply(ctx context.Context, sessionID int, userText string) string {
	a.sessions.AddMessage(sessionID, store.SenderUser, userText)
	answer := a.engine.Reply(ctx, config.ReplyInstruction(a.settings.Language)+userText)
	a.sessions.AddMessage(sessionID, a.engine.Persona().Name, answer)
	return answer
}

// runMatrix serves conversations over Matrix until interrupted.
func (a *App) runMatrix(ctx context.Context, cancel context.CancelFunc) error {
	// Each room gets its own session so titles and history stay per room.
	var mu sync.Mutex
	roomSessions := make(map[string]int)

	handler := func(ctx context.Context, roomID, sender, body string) {
		mu.Lock()
		id, ok := roomSessions[roomID]
		if !ok {
			id = a.sessions.Create()
			roomSessions[roomID] = id
		}
		mu.Unlock()

		a.matrix.SetTyping(ctx, roomID, true, 30*time.Second)
		answer := a.reply(ctx, id, body)
		a.matrix.SetTyping(ctx, roomID, false, 0)

		if err := a.matrix.SendText(ctx, roomID, answer); err != nil {
			slog.Error("send reply", "room", roomID, "err", err)
			return
		}
		go a.speak(ctx, answer)
	}

	slog.Info("starting Matrix sync")
	if err := a.matrix.Start(ctx, handler); err != nil {
		return fmt.Errorf("app: start matrix client: %w", err)
	}

	for _, roomID := range a.config.Matrix.Rooms {
		greeting := fmt.Sprintf("%s is here! Say hi 👋", a.engine.Persona().Name)
		if err := a.matrix.SendNotice(ctx, roomID, greeting); err != nil {
			slog.Warn("send startup notice", "room", roomID, "err", err)
		}
	}

	slog.Info("Riko is running; press Ctrl+C to stop")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	slog.Info("shutting down")
	cancel()
	return nil
}
