// Package sidecar boots and supervises the VOICEVOX speech-synthesis engine
// as a Docker container so text-to-speech works out of the box.
//
// Ensure is best-effort by contract: an absent Docker daemon, a failed pull
// or a container that never becomes healthy all surface as an error the
// caller downgrades to "TTS disabled". The chat loop never depends on it.
package sidecar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	dockerclient "github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"

	"github.com/hoshinoki/riko/common/retry"
)

const (
	// ContainerName identifies the engine container across restarts.
	ContainerName = "voicevox-engine"

	// DefaultImage is the CPU build of the VOICEVOX engine.
	DefaultImage = "voicevox/voicevox_engine:cpu-ubuntu20.04-latest"

	// EnginePort is the engine's HTTP port, published on the host verbatim.
	EnginePort = 50021

	labelManagedBy = "riko.managed-by"
	managedByValue = "riko"

	// stopTimeout is how long a graceful container stop may take.
	stopTimeout = 10 * time.Second
)

// Manager ensures the VOICEVOX engine container exists, is running and
// answers HTTP before TTS is enabled.
type Manager struct {
	client   *dockerclient.Client
	image    string
	probeURL string
	probe    *http.Client
}

// New creates a sidecar manager talking to the local Docker daemon (honouring
// DOCKER_HOST).
func New() (*Manager, error) {
	cli, err := dockerclient.NewClientWithOpts(
		dockerclient.FromEnv,
		dockerclient.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("sidecar: docker client: %w", err)
	}
	return &Manager{
		client:   cli,
		image:    DefaultImage,
		probeURL: fmt.Sprintf("http://127.0.0.1:%d/version", EnginePort),
		probe:    &http.Client{Timeout: 1500 * time.Millisecond},
	}, nil
}

// Ensure makes the engine reachable: if it already answers HTTP nothing is
// touched; an unresponsive container is restarted; a stopped one is started;
// a missing one is created. It then waits up to ~40 s for the engine to
// answer its version endpoint.
func (m *Manager) Ensure(ctx context.Context) error {
	if m.Alive(ctx) {
		slog.Info("voicevox engine already running")
		return nil
	}

	id, running, err := m.findContainer(ctx)
	if err != nil {
		return err
	}

	switch {
	case running:
		// Container is up but the engine is deaf. Restart it.
		slog.Warn("voicevox container running but unresponsive, restarting")
		timeout := int(stopTimeout.Seconds())
		if err := m.client.ContainerRestart(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil {
			return fmt.Errorf("sidecar: restart container: %w", err)
		}
	case id != "":
		slog.Info("starting existing voicevox container")
		if err := m.client.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
			return fmt.Errorf("sidecar: start container: %w", err)
		}
	default:
		slog.Info("creating voicevox container", "image", m.image)
		if err := m.create(ctx); err != nil {
			return err
		}
	}

	return m.waitReady(ctx)
}

// Alive reports whether the engine currently answers HTTP.
func (m *Manager) Alive(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := m.probe.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// findContainer locates the engine container by name, returning its id and
// whether it is currently running. Absent containers return ("", false, nil).
func (m *Manager) findContainer(ctx context.Context) (string, bool, error) {
	list, err := m.client.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filters.NewArgs(filters.Arg("name", ContainerName)),
	})
	if err != nil {
		return "", false, fmt.Errorf("sidecar: list containers: %w", err)
	}
	for _, c := range list {
		for _, name := range c.Names {
			if strings.TrimPrefix(name, "/") == ContainerName {
				return c.ID, c.State == "running", nil
			}
		}
	}
	return "", false, nil
}

// create creates and starts a fresh engine container with the engine port
// published on the host.
func (m *Manager) create(ctx context.Context) error {
	port := nat.Port(fmt.Sprintf("%d/tcp", EnginePort))

	containerCfg := &container.Config{
		Image:        m.image,
		Labels:       map[string]string{labelManagedBy: managedByValue},
		ExposedPorts: nat.PortSet{port: struct{}{}},
	}
	hostCfg := &container.HostConfig{
		PortBindings: nat.PortMap{
			port: []nat.PortBinding{{HostIP: "127.0.0.1", HostPort: fmt.Sprintf("%d", EnginePort)}},
		},
		RestartPolicy: container.RestartPolicy{Name: "unless-stopped"},
	}

	resp, err := m.client.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, ContainerName)
	if dockerclient.IsErrNotFound(err) {
		if err := m.pull(ctx); err != nil {
			return err
		}
		resp, err = m.client.ContainerCreate(ctx, containerCfg, hostCfg, nil, nil, ContainerName)
	}
	if err != nil {
		return fmt.Errorf("sidecar: create container: %w", err)
	}

	if err := m.client.ContainerStart(ctx, resp.ID, container.StartOptions{}); err != nil {
		// Best-effort cleanup so the next attempt can recreate cleanly.
		_ = m.client.ContainerRemove(ctx, resp.ID, container.RemoveOptions{Force: true})
		return fmt.Errorf("sidecar: start container: %w", err)
	}
	return nil
}

// pull downloads the engine image. The CPU image is around 1 GB, so this
// only runs when the local daemon does not have it yet.
func (m *Manager) pull(ctx context.Context) error {
	slog.Info("pulling voicevox engine image, this may take a while", "image", m.image)
	rc, err := m.client.ImagePull(ctx, m.image, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("sidecar: pull image: %w", err)
	}
	defer rc.Close()
	// The daemon streams progress JSON; draining it is what completes the pull.
	if _, err := io.Copy(io.Discard, rc); err != nil {
		return fmt.Errorf("sidecar: pull image: %w", err)
	}
	return nil
}

// waitReady polls the version endpoint until the engine answers or the
// wait runs out.
func (m *Manager) waitReady(ctx context.Context) error {
	slog.Info("waiting for voicevox engine to become ready")
	err := retry.Do(ctx, retry.Config{
		MaxAttempts:  40,
		InitialDelay: time.Second,
		MaxDelay:     time.Second,
	}, func() error {
		if m.Alive(ctx) {
			return nil
		}
		return fmt.Errorf("engine not answering at %s", m.probeURL)
	})
	if err != nil {
		return fmt.Errorf("sidecar: engine did not become ready: %w", err)
	}
	slog.Info("voicevox engine ready")
	return nil
}
