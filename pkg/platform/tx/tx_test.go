package tx

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	_, ok := From(ctx)
	assert.False(t, ok)

	assert.Equal(t, ctx, WithTx(ctx, nil), "nil transaction leaves the context alone")

	sqlTx := &sql.Tx{}
	got, ok := From(WithTx(ctx, sqlTx))
	assert.True(t, ok)
	assert.Same(t, sqlTx, got)
}
