package log

import "testing"

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"DEBUG": LevelDebug,
		"INFO":  LevelInfo,
		"WARN":  LevelWarn,
		"ERROR": LevelError,
		"FATAL": LevelFatal,
		"":      LevelInfo,
		"bogus": LevelInfo,
	}

	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	logger := NewLogger(LevelError)
	if logger.level != LevelError {
		t.Fatalf("expected level %v, got %v", LevelError, logger.level)
	}

	logger.SetLevel(LevelDebug)
	if logger.level != LevelDebug {
		t.Fatalf("expected level %v, got %v", LevelDebug, logger.level)
	}
}
