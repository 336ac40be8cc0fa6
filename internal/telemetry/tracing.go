// Package telemetry sets up tracing for the service.
package telemetry

import (
	"fmt"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/easeaico/her-line/internal/config"
)

// ServiceName is reported as the service.name resource attribute.
const ServiceName = "her-line"

// NewTracerProvider builds the tracer provider for exporter, one of the
// config.TracesExporter values. Stdout spans are written to w. Callers own
// Shutdown, which flushes pending spans.
func NewTracerProvider(exporter string, w io.Writer) (*sdktrace.TracerProvider, error) {
	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
	}

	switch exporter {
	case "", config.TracesExporterNone:
	case config.TracesExporterStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exp))
	default:
		return nil, fmt.Errorf("unsupported traces exporter %q", exporter)
	}

	return sdktrace.NewTracerProvider(opts...), nil
}
