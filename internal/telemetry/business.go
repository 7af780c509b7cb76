package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

// BusinessTracer opens spans for the steps of one analysis.
type BusinessTracer struct {
	tracer trace.Tracer
}

// NewBusinessTracer creates a tracer on tp, or on the global provider when tp is nil.
func NewBusinessTracer(tp trace.TracerProvider) *BusinessTracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	return &BusinessTracer{tracer: tp.Tracer(businessTracerName)}
}

// TraceAnalysis starts the root span of an analysis request.
func (bt *BusinessTracer) TraceAnalysis(ctx context.Context, symbol, wallet string) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, "analysis",
		trace.WithAttributes(
			attribute.String("symbol", symbol),
			attribute.String("wallet_address", wallet),
		))
}

// TraceMarketDataFetch starts a span around snapshot and bar retrieval.
func (bt *BusinessTracer) TraceMarketDataFetch(ctx context.Context, provider, symbol, interval string, limit int) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, "market_data.fetch",
		trace.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("symbol", symbol),
			attribute.String("interval", interval),
			attribute.Int("limit", limit),
		))
}

// TraceIndicatorComputation starts a span around ComputeIndicators.
func (bt *BusinessTracer) TraceIndicatorComputation(ctx context.Context, symbol string, bars int) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, "indicators.compute",
		trace.WithAttributes(
			attribute.String("symbol", symbol),
			attribute.Int("bars", bars),
		))
}

// RecordIndicators adds the headline indicator values to span.
func (bt *BusinessTracer) RecordIndicators(span trace.Span, ind models.IndicatorSet) {
	span.SetAttributes(
		attribute.Float64("rsi", ind.RSI),
		attribute.Float64("macd.value", ind.MACD.Value),
		attribute.Float64("macd.signal", ind.MACD.Signal),
		attribute.Bool("volume.spike", ind.Volume.Spike),
		attribute.Int("liquidation_zones", len(ind.LiquidationZones)),
	)
}

// TraceReasoning starts a span around the reasoning service call.
func (bt *BusinessTracer) TraceReasoning(ctx context.Context, symbol string) (context.Context, trace.Span) {
	return bt.tracer.Start(ctx, "reasoning.analyze",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("symbol", symbol)))
}

// RecordVerdict adds the final verdict to span.
func (bt *BusinessTracer) RecordVerdict(span trace.Span, verdict models.Verdict) {
	span.SetAttributes(
		attribute.String("verdict.tendency", string(verdict.Tendency)),
		attribute.String("verdict.risk", string(verdict.Risk)),
		attribute.String("verdict.source", string(verdict.Source)),
	)
}

// RecordError marks span as failed.
func RecordError(span trace.Span, err error, description string) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, description)
}
