package logging

import "testing"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"bogus", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseLevel(tt.input); got != tt.want {
				t.Errorf("ParseLevel(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitLogger(t *testing.T) {
	InitLogger(LevelDebug, FormatJSON)
	if GetLogger() == nil {
		t.Fatal("GetLogger returned nil after InitLogger")
	}

	// Helpers must not panic regardless of configuration.
	Debug("debug message", "k", "v")
	Info("info message")
	Warn("warn message")
	Error("error message")
	PartLoaded("xl/tables/table1.xml", 512)
	TableParsed("xl/tables/table1.xml", "xl/worksheets/sheet1.xml", 3, 2)
	PackageSaved("book.xlsx", 12, 1)

	InitLogger(LevelInfo, FormatText)
}
