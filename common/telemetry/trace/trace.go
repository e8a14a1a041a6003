package trace

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	apierrors "github.com/muliswilliam/vending-machine/common/apierrors"
	"github.com/muliswilliam/vending-machine/common/utils"
)

const instrumentationName = "github.com/muliswilliam/vending-machine"

func tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan opens an internal span named after the function that called it.
func StartSpan(ctx context.Context, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	fn := utils.GetCallerFunctionName(3)
	return tracer().Start(ctx, fn,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(semconv.CodeFunction(fn), semconv.CodeNamespace(instrumentationName)),
		trace.WithAttributes(attrs...),
	)
}

// StartProducerSpan opens a "<destination> publish" producer span for a
// message about to leave the process.
func StartProducerSpan(ctx context.Context, destination string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer().Start(ctx, destination+" publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.operation.type", "publish"),
			semconv.MessagingDestinationName(destination),
		),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan ends span after recording *errp, if any. Business rejections, such
// as a sold-out slot or a short payment, leave the status Unset: the machine
// behaved correctly. Every other error marks the span Error.
func EndSpan(span trace.Span, errp *error, opts ...trace.SpanEndOption) {
	defer span.End(opts...)

	if errp == nil || *errp == nil {
		span.SetStatus(codes.Ok, "")
		return
	}
	err := *errp

	var appErr *apierrors.AppError
	if errors.As(err, &appErr) && appErr.Category == apierrors.CategoryBusiness {
		span.AddEvent("rejected", trace.WithAttributes(attribute.String("error.code", appErr.Code)))
		return
	}
	span.RecordError(err, trace.WithStackTrace(true))
	span.SetStatus(codes.Error, err.Error())
}
