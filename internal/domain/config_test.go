package domain

import (
	"errors"
	"testing"

	m "github.com/EvanKepner/mutatest/internal/model"
)

func validConfig() Config {
	return Config{
		Paths:         []m.Path{"/proj/pkg"},
		Mode:          ModeBreakOnSurvivor,
		TimeoutFactor: 2,
	}
}

func TestConfigValidate(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg := Config{Paths: []m.Path{"/proj"}}

		if err := cfg.Validate(); err != nil {
			t.Fatal(err)
		}

		if cfg.Mode != ModeBreakOnSurvivor {
			t.Errorf("expected default mode s, got %q", cfg.Mode)
		}

		if cfg.TimeoutFactor != 5 {
			t.Errorf("expected default timeout factor 5, got %v", cfg.TimeoutFactor)
		}

		if len(cfg.TestCmds) == 0 {
			t.Error("expected a default test command")
		}

		if cfg.Workers != 1 {
			t.Errorf("expected serial default, got %d workers", cfg.Workers)
		}
	})

	t.Run("requires source paths", func(t *testing.T) {
		cfg := Config{}

		if err := cfg.Validate(); err == nil {
			t.Error("expected an error with no paths")
		}
	})

	t.Run("whitelist and blacklist are mutually exclusive", func(t *testing.T) {
		cfg := validConfig()
		cfg.Whitelist = []string{"bn"}
		cfg.Blacklist = []string{"cp"}

		err := cfg.Validate()

		var cfgErr *FilterConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected FilterConfigError, got %v", err)
		}
	})

	t.Run("rejects unknown category codes", func(t *testing.T) {
		cfg := validConfig()
		cfg.Blacklist = []string{"zz"}

		err := cfg.Validate()

		var cfgErr *FilterConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected FilterConfigError, got %v", err)
		}

		if cfgErr.Code != "zz" {
			t.Errorf("expected offending code zz, got %q", cfgErr.Code)
		}
	})

	t.Run("timeout factor must exceed one", func(t *testing.T) {
		for _, factor := range []float64{0.5, 1} {
			cfg := validConfig()
			cfg.TimeoutFactor = factor

			if err := cfg.Validate(); err == nil {
				t.Errorf("expected an error for timeout factor %v", factor)
			}
		}
	})

	t.Run("rejects unknown run modes", func(t *testing.T) {
		cfg := validConfig()
		cfg.Mode = RunMode("fast")

		if err := cfg.Validate(); err == nil {
			t.Error("expected an error for an unknown run mode")
		}
	})
}

func TestParseRunMode(t *testing.T) {
	tests := []struct {
		value string
		want  RunMode
		ok    bool
	}{
		{"f", ModeFull, true},
		{"s", ModeBreakOnSurvivor, true},
		{"d", ModeBreakOnDetected, true},
		{"sd", ModeBreakOnEither, true},
		{"", "", false},
		{"x", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			mode, err := ParseRunMode(tt.value)

			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !tt.ok && err == nil {
				t.Fatal("expected an error")
			}

			if mode != tt.want {
				t.Errorf("expected mode %q, got %q", tt.want, mode)
			}
		})
	}
}

func TestRunModeBreaks(t *testing.T) {
	tests := []struct {
		mode   RunMode
		status m.Status
		want   bool
	}{
		{ModeFull, m.StatusSurvived, false},
		{ModeFull, m.StatusDetected, false},
		{ModeBreakOnSurvivor, m.StatusSurvived, true},
		{ModeBreakOnSurvivor, m.StatusDetected, false},
		{ModeBreakOnSurvivor, m.StatusTimeout, false},
		{ModeBreakOnDetected, m.StatusDetected, true},
		{ModeBreakOnDetected, m.StatusSurvived, false},
		{ModeBreakOnEither, m.StatusSurvived, true},
		{ModeBreakOnEither, m.StatusDetected, true},
		{ModeBreakOnEither, m.StatusError, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+string(tt.status), func(t *testing.T) {
			if got := tt.mode.breakOn(tt.status); got != tt.want {
				t.Errorf("mode %q on %s = %v, expected %v", tt.mode, tt.status, got, tt.want)
			}
		})
	}
}
