package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mautops/testimonial-gin/internal/config"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Tracing OpenTelemetry 追踪
type Tracing struct {
	provider    *tracesdk.TracerProvider
	serviceName string
}

// InitTracing 初始化 OpenTelemetry 追踪, 未启用时返回空实现
func InitTracing(ctx context.Context, cfg config.TracingConfig) (*Tracing, error) {
	name := cfg.ServiceName
	if name == "" {
		name = serviceName
	}
	if !cfg.Enabled {
		return &Tracing{serviceName: name}, nil
	}

	exp, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.Endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(name)),
	)
	if err != nil {
		return nil, err
	}

	provider := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(res),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Tracing{provider: provider, serviceName: name}, nil
}

// Enabled 是否启用
func (t *Tracing) Enabled() bool {
	return t != nil && t.provider != nil
}

// Middleware 追踪中间件
func (t *Tracing) Middleware() gin.HandlerFunc {
	return otelgin.Middleware(t.serviceName)
}

// Shutdown 关闭追踪
func (t *Tracing) Shutdown(ctx context.Context) error {
	if !t.Enabled() {
		return nil
	}
	return t.provider.Shutdown(ctx)
}
