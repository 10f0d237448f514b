package cli

import (
	"context"
	"io"
	"testing"

	"github.com/factlens/origintrace/pkg/config"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "origintrace" {
		t.Errorf("root.Use = %q, want %q", root.Use, "origintrace")
	}

	want := []string{"trace", "layout", "export", "serve", "cache", "completion"}
	registered := make(map[string]bool)
	for _, sub := range root.Commands() {
		registered[sub.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("root command is missing subcommand %q", name)
		}
	}
}

func TestSetLogLevel(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.SetLogLevel(LogDebug)
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want %v", c.Logger.GetLevel(), LogDebug)
	}
}

func TestNewRunnerNoCache(t *testing.T) {
	c := New(io.Discard, LogInfo)
	runner, err := c.newRunner(true)
	if err != nil {
		t.Fatalf("newRunner(true) error: %v", err)
	}
	defer runner.Close()

	if runner.Logger != c.Logger {
		t.Error("runner should use the CLI logger")
	}
}

func TestServeCacheBackends(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		store, err := serveCache(ctx, config.CacheConfig{Backend: config.BackendNone})
		if err != nil {
			t.Fatalf("serveCache(none) error: %v", err)
		}
		defer store.Close()
	})

	t.Run("file with dir", func(t *testing.T) {
		store, err := serveCache(ctx, config.CacheConfig{Backend: config.BackendFile, Dir: t.TempDir()})
		if err != nil {
			t.Fatalf("serveCache(file) error: %v", err)
		}
		defer store.Close()
	})

	t.Run("unknown backend", func(t *testing.T) {
		if _, err := serveCache(ctx, config.CacheConfig{Backend: "bogus"}); err == nil {
			t.Fatal("expected error for unknown backend")
		}
	})
}
