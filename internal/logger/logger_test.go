package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNew_ValidLevels(t *testing.T) {
	levels := []string{"debug", "info", "warn", "error", "dpanic", "panic", "fatal"}

	for _, lvl := range levels {
		t.Run(lvl, func(t *testing.T) {
			log, err := New(lvl)
			assert.NoError(t, err, "expected no error for level %s", lvl)
			assert.NotNil(t, log)
			assert.IsType(t, &zap.SugaredLogger{}, log)

			// Ensure logging works without panic
			assert.NotPanics(t, func() {
				log.Infow("test log", "level", lvl)
			})
		})
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	log, err := New("not-a-level")
	assert.Error(t, err, "expected error for invalid log level")
	assert.Nil(t, log)
}
