package config

import (
	"context"
	"os"
	"testing"

	"github.com/herrhotzenplotz/gcli"
)

func TestStaticSelector(t *testing.T) {
	sel := StaticSelector(gcli.ForgeGitLab)
	got, err := sel()
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	if got != gcli.ForgeGitLab {
		t.Errorf("selector() = %q, want gitlab", got)
	}
}

func TestAccountHTTPClientNoToken(t *testing.T) {
	a := Account{Forge: gcli.ForgeGitHub}
	c := a.HTTPClient(context.Background())
	if c.Transport != nil {
		t.Errorf("expected a plain client with no custom transport, got %#v", c.Transport)
	}
}

func TestAccountHTTPClientGitHubTokenIsLeftToAdapter(t *testing.T) {
	// GitHub's "token " scheme can't be produced by oauth2.NewClient, so
	// HTTPClient must not attach a bearer transport for it even when a
	// token is set.
	a := Account{Forge: gcli.ForgeGitHub, Token: "abc123"}
	c := a.HTTPClient(context.Background())
	if c.Transport != nil {
		t.Errorf("expected no oauth2 transport for ForgeGitHub, got %#v", c.Transport)
	}
}

func TestAccountHTTPClientGitLabUsesBearerTransport(t *testing.T) {
	a := Account{Forge: gcli.ForgeGitLab, Token: "abc123"}
	c := a.HTTPClient(context.Background())
	if c.Transport == nil {
		t.Fatal("expected an oauth2 bearer transport for ForgeGitLab")
	}
}

func TestNewLoggerStderrOnly(t *testing.T) {
	logger := NewLogger(LogFile{}, false)
	if logger == nil {
		t.Fatal("NewLogger returned nil")
	}
	logger.Info("test message")
}

func TestNewLoggerWithRotation(t *testing.T) {
	dir := t.TempDir()
	logger := NewLogger(LogFile{Path: dir + "/gcli.log", MaxSizeMB: 1}, true)
	logger.Debug("debug message")
	if err := logger.Sync(); err != nil {
		t.Logf("Sync: %v", err) // stderr sync commonly errors on non-terminal fds; not a test failure
	}

	if _, err := os.Stat(dir + "/gcli.log"); err != nil {
		t.Errorf("expected log file to be created: %v", err)
	}
}
