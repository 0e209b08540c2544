package kit

import "go.uber.org/zap"

// NewLogger builds a production zap logger tagged with the service name.
// level is parsed leniently; an empty or unknown value means info.
func NewLogger(service, level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service}

	if lvl, err := zap.ParseAtomicLevel(level); err == nil && level != "" {
		cfg.Level = lvl
	}

	l, _ := cfg.Build()
	return l
}
