package app

import (
	"context"
	"testing"

	"talent-match/internal/domain/resume"

	"github.com/stretchr/testify/assert"
)

type closingExtractor struct {
	closed bool
}

func (e *closingExtractor) ExtractResume(context.Context, string) (resume.Parsed, error) {
	return resume.Parsed{}, nil
}

func (e *closingExtractor) Close() error {
	e.closed = true
	return nil
}

func TestContainerClose_ClosesExtractor(t *testing.T) {
	ext := &closingExtractor{}
	c := &Container{Extractor: ext}

	assert.NoError(t, c.Close())
	assert.True(t, ext.closed)
}

func TestContainerClose_NilSafe(t *testing.T) {
	var c *Container
	assert.NoError(t, c.Close())
	assert.NoError(t, (&Container{}).Close())
}
