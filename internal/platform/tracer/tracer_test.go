package tracer

import (
	"context"
	"testing"

	"github.com/gget5897-gif/brainrot-bot/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracer_DisabledWithoutEndpoint(t *testing.T) {
	tp := InitTracer("brainrot-bot", "", logger.NewNop())
	require.NotNil(t, tp)
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}
