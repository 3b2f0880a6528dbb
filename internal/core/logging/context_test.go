package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRepo(ctx))
	assert.Empty(t, GetOperation(ctx))

	ctx = WithRepo(ctx, "/src/project")
	ctx = WithOperation(ctx, "status")

	assert.Equal(t, "/src/project", GetRepo(ctx))
	assert.Equal(t, "status", GetOperation(ctx))
}
