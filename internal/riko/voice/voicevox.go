package voice

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Speaker converts reply text into audible speech.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// defaultPlayer is the external command used to play synthesised audio. The
// file path is appended as the final argument.
var defaultPlayer = []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"}

// VoiceVoxConfig configures the VOICEVOX text-to-speech client.
type VoiceVoxConfig struct {
	// Host and Port locate the VOICEVOX engine. Default 127.0.0.1:50021.
	Host string
	Port int

	// SpeakerID selects the VOICEVOX voice. Default 1.
	SpeakerID int

	// Player is the audio player command line; the wav path is appended.
	// Defaults to ffplay in quiet auto-exit mode.
	Player []string

	// QueryTimeout and SynthesisTimeout bound the two engine calls.
	// Defaults 10 s and 30 s; synthesis is the expensive step.
	QueryTimeout     time.Duration
	SynthesisTimeout time.Duration
}

// VoiceVox speaks text through a VOICEVOX engine: request a synthesis query
// for the text, submit the query for waveform synthesis, then play the wav
// through an external player process. The temporary wav file is removed
// whether or not playback succeeds.
type VoiceVox struct {
	baseURL   string
	speakerID int
	player    []string
	query     *http.Client
	synth     *http.Client
}

// NewVoiceVox creates a VOICEVOX client with defaults filled in.
func NewVoiceVox(cfg VoiceVoxConfig) *VoiceVox {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 50021
	}
	if cfg.SpeakerID == 0 {
		cfg.SpeakerID = 1
	}
	if len(cfg.Player) == 0 {
		cfg.Player = defaultPlayer
	}
	if cfg.QueryTimeout == 0 {
		cfg.QueryTimeout = 10 * time.Second
	}
	if cfg.SynthesisTimeout == 0 {
		cfg.SynthesisTimeout = 30 * time.Second
	}
	return &VoiceVox{
		baseURL:   fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		speakerID: cfg.SpeakerID,
		player:    cfg.Player,
		query:     &http.Client{Timeout: cfg.QueryTimeout},
		synth:     &http.Client{Timeout: cfg.SynthesisTimeout},
	}
}

// NewVoiceVoxAt is NewVoiceVox for an explicit base URL, used by tests.
func NewVoiceVoxAt(baseURL string, speakerID int, player []string) *VoiceVox {
	v := NewVoiceVox(VoiceVoxConfig{SpeakerID: speakerID, Player: player})
	v.baseURL = strings.TrimRight(baseURL, "/")
	return v
}

// Speak synthesises text and plays it. Empty or whitespace-only text is a
// no-op.
func (v *VoiceVox) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	queryJSON, err := v.audioQuery(ctx, text)
	if err != nil {
		return err
	}

	wav, err := v.synthesize(ctx, queryJSON)
	if err != nil {
		return err
	}

	wavPath := filepath.Join(os.TempDir(), "riko-tts-"+uuid.New().String()+".wav")
	if err := os.WriteFile(wavPath, wav, 0o600); err != nil {
		return fmt.Errorf("voice: write wav: %w", err)
	}
	defer os.Remove(wavPath)

	args := append(append([]string{}, v.player[1:]...), wavPath)
	if err := exec.CommandContext(ctx, v.player[0], args...).Run(); err != nil {
		return fmt.Errorf("voice: play wav: %w", err)
	}
	return nil
}

// audioQuery asks the engine to build a synthesis query descriptor for text.
func (v *VoiceVox) audioQuery(ctx context.Context, text string) ([]byte, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("speaker", strconv.Itoa(v.speakerID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.baseURL+"/audio_query?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("voice: audio_query request: %w", err)
	}

	resp, err := v.query.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voice: audio_query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voice: audio_query: HTTP %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("voice: audio_query read: %w", err)
	}
	return body, nil
}

// synthesize submits a query descriptor and returns the rendered waveform.
func (v *VoiceVox) synthesize(ctx context.Context, queryJSON []byte) ([]byte, error) {
	params := url.Values{}
	params.Set("speaker", strconv.Itoa(v.speakerID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.baseURL+"/synthesis?"+params.Encode(), bytes.NewReader(queryJSON))
	if err != nil {
		return nil, fmt.Errorf("voice: synthesis request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.synth.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voice: synthesis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voice: synthesis: HTTP %d", resp.StatusCode)
	}
	wav, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("voice: synthesis read: %w", err)
	}
	return wav, nil
}
