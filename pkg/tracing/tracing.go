// Package tracing configura el proveedor de trazas OpenTelemetry del servicio.
package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventory-ledger/pkg/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Shutdown vacía las trazas pendientes y cierra el exportador.
type Shutdown func(context.Context) error

func nopShutdown(context.Context) error { return nil }

// Setup instala el proveedor global cuando el trazado está habilitado y lo devuelve para
// inyectarlo en el motor. Deshabilitado devuelve el proveedor global actual (no-op por defecto).
func Setup(ctx context.Context, serviceName, env string, cfg config.TracingConfig) (trace.TracerProvider, Shutdown, error) {
	if !cfg.Enabled {
		return otel.GetTracerProvider(), nopShutdown, nil
	}

	dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	exporter, err := otlptracegrpc.New(dialCtx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("exportador otlp: %w", err)
	}

	tp, err := NewProvider(ctx, serviceName, env, cfg.SampleRatio, sdktrace.WithBatcher(exporter))
	if err != nil {
		return nil, nil, err
	}
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	shutdown := func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return tp, shutdown, nil
}

// NewProvider arma el proveedor con recurso del servicio y muestreo por proporción.
// opts recibe el procesador de spans (batcher en producción, recorder en pruebas).
func NewProvider(ctx context.Context, serviceName, env string, sampleRatio float64, opts ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.DeploymentEnvironment(env),
	))
	if err != nil {
		return nil, fmt.Errorf("recurso de trazas: %w", err)
	}
	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
	}, opts...)
	return sdktrace.NewTracerProvider(opts...), nil
}
