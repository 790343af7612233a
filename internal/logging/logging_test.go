package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestConfigLevel(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg, err := Config(tt.level, "stderr")
			if err != nil {
				t.Fatalf("Config() error = %v", err)
			}
			if got := cfg.Level.Level(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigRejectsUnknownLevel(t *testing.T) {
	if _, err := Config("loud", "stderr"); err == nil {
		t.Error("Config(loud) error = nil, want error")
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "battle.log")
	log, err := New("info", path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Debug("hidden")
	log.Info("phase begun")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "phase begun") {
		t.Errorf("log file missing info entry: %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("log file contains debug entry at info level: %q", out)
	}
	if !strings.Contains(out, "gridtactics") {
		t.Errorf("log file missing logger name: %q", out)
	}
}
