package logger

import (
	"context"
	"testing"

	"stocktrack/internal/shared/contextkeys"

	"github.com/stretchr/testify/assert"
)

func TestLoggerInterface_Contract(t *testing.T) {
	var _ Logger = NewLogger()
	var _ Logger = NewLoggerWithConfig("info", "json")
}

func TestLogrusLogger_WithFieldsAndContext(t *testing.T) {
	logger := NewLogger()
	logger2 := logger.WithFields(map[string]interface{}{"foo": "bar"})
	assert.NotNil(t, logger2)
	ctx := context.Background()
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, "user1")
	logger3 := logger.WithContext(ctx)
	assert.NotNil(t, logger3)
}

func TestLogrusLogger_WithComponent(t *testing.T) {
	logger := NewLogger()
	logger2 := logger.WithComponent("test-component")
	assert.NotNil(t, logger2)
}
