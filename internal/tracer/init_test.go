package tracer

import (
	"context"
	"testing"

	"inzite-research-be/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown := InitTracer(context.Background(), config.TracingConfig{Enabled: false})
	assert.NoError(t, shutdown(context.Background()))
}
