package common

import (
	"errors"
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "info", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "DEBUG", wantErr: true},
		{input: "trace", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidConfig) {
					t.Errorf("ParseLogLevel(%q) error = %v, want ErrInvalidConfig", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLogLevel(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSetupLoggerRejectsUnknownFormat(t *testing.T) {
	if err := SetupLogger(slog.LevelInfo, "xml"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("SetupLogger error = %v, want ErrInvalidConfig", err)
	}
}

func TestCategoryInUseError(t *testing.T) {
	err := &CategoryInUseError{CategoryID: "cat-1", Count: 3}

	if !IsCategoryInUse(err) {
		t.Error("IsCategoryInUse() = false, want true")
	}

	var target *CategoryInUseError
	if !errors.As(err, &target) {
		t.Fatal("errors.As failed for CategoryInUseError")
	}
	if target.Count != 3 {
		t.Errorf("Count = %d, want 3", target.Count)
	}

	if IsCategoryInUse(errors.New("other")) {
		t.Error("IsCategoryInUse(other) = true, want false")
	}
}
