package logging

import (
	"log/slog"
	"os"
)

// Setup installs a JSON stdout logger as the process default. It runs before
// the databases connect; once the legacy connection exists, main swaps in a
// MultiHandler that also feeds the system_logs batch writer.
func Setup() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}
