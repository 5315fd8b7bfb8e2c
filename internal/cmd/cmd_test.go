package cmd

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestSeedCommand_SQLite(t *testing.T) {
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_DSN", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))

	rootCmd.SetArgs([]string{"seed", "--config-dir", t.TempDir()})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestMigrateCommand_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("LOG_MODE", "test")
	t.Setenv("DB_DRIVER", "oracle")

	rootCmd.SetArgs([]string{"migrate", "--config-dir", t.TempDir()})
	if err := rootCmd.ExecuteContext(context.Background()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
