package snsctx

import "context"

type ctxIndex int

const ctxIndexTrace ctxIndex = iota

// IsTracing reports whether raw bus traffic should be dumped to the debug log.
func IsTracing(ctx context.Context) bool {
	val, _ := ctx.Value(ctxIndexTrace).(bool)
	return val
}

func SetTracing(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, ctxIndexTrace, value)
}
