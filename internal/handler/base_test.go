package handler

import (
	"testing"

	"github.com/deppfellow/platform-api/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestNewRequestAllocatesPerCall(t *testing.T) {
	prototype := &model.UpdateDocumentRequest{ID: "shared"}

	first := newRequest(prototype)
	second := newRequest(prototype)

	assert.NotSame(t, prototype, first)
	assert.NotSame(t, first, second)
	assert.Empty(t, first.ID)

	first.ID = "abc"
	assert.Empty(t, second.ID)
	assert.Equal(t, "shared", prototype.ID)
}

func TestSlowThresholdWithoutServer(t *testing.T) {
	assert.Zero(t, Handler{}.slowThreshold())
}
