package middleware

import (
	"context"
	"strings"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/metrics"
)

// MetricsInterceptor returns a Connect interceptor that records every RPC in rec.
// The operation label is the method part of the procedure ("AddMember").
func MetricsInterceptor(rec *metrics.Recorder) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			rec.Record(operationName(req.Spec().Procedure), resultForCode(err), time.Since(start))
			return resp, err
		}
	}
}

func operationName(procedure string) string {
	if i := strings.LastIndexByte(procedure, '/'); i >= 0 {
		return procedure[i+1:]
	}
	return procedure
}

func resultForCode(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	switch connect.CodeOf(err) {
	case connect.CodeNotFound:
		return metrics.ResultNotFound
	case connect.CodeInvalidArgument:
		return metrics.ResultInvalid
	default:
		return metrics.ResultError
	}
}
