package observability

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		format    string
		wantLevel logrus.Level
		wantJSON  bool
	}{
		{
			name:      "defaults to info json",
			level:     "",
			format:    "",
			wantLevel: logrus.InfoLevel,
			wantJSON:  true,
		},
		{
			name:      "debug level",
			level:     "debug",
			format:    "json",
			wantLevel: logrus.DebugLevel,
			wantJSON:  true,
		},
		{
			name:      "warn level text format",
			level:     "warn",
			format:    "text",
			wantLevel: logrus.WarnLevel,
			wantJSON:  false,
		},
		{
			name:      "warning alias",
			level:     "warning",
			format:    "json",
			wantLevel: logrus.WarnLevel,
			wantJSON:  true,
		},
		{
			name:      "error level",
			level:     "error",
			format:    "json",
			wantLevel: logrus.ErrorLevel,
			wantJSON:  true,
		},
		{
			name:      "unknown level falls back to info",
			level:     "verbose",
			format:    "json",
			wantLevel: logrus.InfoLevel,
			wantJSON:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.level, tt.format)
			assert.Equal(t, tt.wantLevel, logger.GetLevel())

			_, isJSON := logger.Formatter.(*logrus.JSONFormatter)
			assert.Equal(t, tt.wantJSON, isJSON)
		})
	}
}
