package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

func TestNewWithWriter_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "warn")

	log.Info().Msg("no debe aparecer")
	assert.Zero(t, buf.Len(), "info queda por debajo de warn")

	log.Warn().Str("product_id", "p1").Msg("auditoría no registrada")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "p1", entry["product_id"])
	assert.Equal(t, "auditoría no registrada", entry["message"])
}

func TestNop_NoEscribe(t *testing.T) {
	log := logger.Nop()
	assert.NotPanics(t, func() { log.Error().Msg("descartado") })
}

func TestComponentYCtx_AgreganCampos(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter(&buf, "debug").Component("engine")

	// Sin span activo Ctx no agrega nada.
	base.Ctx(context.Background()).Info().Msg("sin traza")
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "engine", entry["component"])
	assert.NotContains(t, entry, "trace_id")

	buf.Reset()
	tid, _ := trace.TraceIDFromHex("0102030405060708090a0b0c0d0e0f10")
	sid, _ := trace.SpanIDFromHex("0102030405060708")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: tid, SpanID: sid, TraceFlags: trace.FlagsSampled,
	}))
	base.Ctx(ctx).Debug().Msg("con traza")
	entry = nil
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "0102030405060708090a0b0c0d0e0f10", entry["trace_id"])
	assert.Equal(t, "0102030405060708", entry["span_id"])
	assert.Equal(t, "engine", entry["component"])
}

func TestNewWithWriter_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, "ruidoso")
	log.Debug().Msg("oculto")
	assert.Zero(t, buf.Len())
	log.Info().Msg("visible")
	assert.NotZero(t, buf.Len())
}
