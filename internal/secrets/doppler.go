// Package secrets resolves credentials from Doppler, falling back to the
// process environment.
package secrets

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const lookupTimeout = 10 * time.Second

// Source looks up a secret by key, returning fallback when it cannot be found
type Source interface {
	GetSecretWithFallback(key, fallback string) string
}

// DopplerClient provides access to secrets stored in Doppler
type DopplerClient struct {
	Project string
	Config  string

	lookPath    func(file string) (string, error)
	runCommand  func(ctx context.Context, name string, args ...string) ([]byte, error)
	initialized bool
}

var _ Source = (*DopplerClient)(nil)

// NewDopplerClient creates a new Doppler client
func NewDopplerClient(project, config string) *DopplerClient {
	return &DopplerClient{
		Project:    project,
		Config:     config,
		lookPath:   exec.LookPath,
		runCommand: runCommand,
	}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Initialize checks if the Doppler CLI is installed
func (d *DopplerClient) Initialize() error {
	if _, err := d.lookPath("doppler"); err != nil {
		return fmt.Errorf("doppler CLI not found: %w", err)
	}

	d.initialized = true
	return nil
}

// GetSecret retrieves a secret, preferring the process environment (as set by
// `doppler run`) over a direct CLI lookup.
func (d *DopplerClient) GetSecret(key string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	if !d.initialized {
		if err := d.Initialize(); err != nil {
			return "", err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
	defer cancel()

	output, err := d.runCommand(ctx, "doppler", "secrets", "get", key,
		"--project", d.Project,
		"--config", d.Config,
		"--plain")
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", key, err)
	}

	return strings.TrimSpace(string(output)), nil
}

// GetSecretWithFallback gets a secret from Doppler with a fallback value
func (d *DopplerClient) GetSecretWithFallback(key, fallback string) string {
	value, err := d.GetSecret(key)
	if err != nil || value == "" {
		return fallback
	}
	return value
}
