package snsctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracing(t *testing.T) {
	ctx := context.Background()
	assert.False(t, IsTracing(ctx))
	assert.True(t, IsTracing(SetTracing(ctx, true)))
	assert.False(t, IsTracing(SetTracing(ctx, false)))
}
