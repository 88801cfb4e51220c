package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *bytes.Buffer) *Logger {
	return New(Config{Output: buf, Level: slog.LevelDebug, Component: ComponentApp})
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf).With("service", "billdash").WithComponent(ComponentReadModel)

	logger.Info("hello")
	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "component="))
	assert.Contains(t, out, "component=readmodel")
	assert.Contains(t, out, "service=billdash")
	assert.Equal(t, ComponentReadModel, logger.Component())
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	assert.Equal(t, "unknown", logger.Component())

	var buf bytes.Buffer
	custom := newBufferLogger(&buf)
	assert.Same(t, custom, FromContext(IntoContext(context.Background(), custom)))
}

func TestIntoContextCarriesRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newBufferLogger(&buf).With(FieldRequestID, "req_1")

	FromContext(IntoContext(context.Background(), logger)).Info("inside")
	assert.Contains(t, buf.String(), "request_id=req_1")
}

type valuer struct{}

func (valuer) Error() string { return "opaque" }
func (valuer) LogValue() slog.Value {
	return slog.GroupValue(slog.String("cause", "connection refused"))
}

func TestLogOperationFailedLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(newBufferLogger(&buf))

	sl.LogOperationFailed(context.Background(), "fetchRevenue", ErrorTypeDatabase, valuer{}, nil)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "operation=fetchRevenue")
	assert.Contains(t, buf.String(), "error.cause=\"connection refused\"")

	buf.Reset()
	sl.LogOperationFailed(context.Background(), "getUser", ErrorTypeNotFound, errors.New("user not found"), NewFields().WithSearch("x", 0))
	assert.Contains(t, buf.String(), "level=WARN")
	assert.NotContains(t, buf.String(), "page=")
}
