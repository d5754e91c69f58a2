package cron

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedJob string

func (n namedJob) Name() string            { return string(n) }
func (namedJob) Run(context.Context) error { return nil }

func TestRegistryKeepsOrder(t *testing.T) {
	r, err := NewRegistry(namedJob("cart_sweep"), nil, namedJob("draft_sweep"))
	require.NoError(t, err)
	require.NoError(t, r.Register(namedJob("cart_purge")))

	var names []string
	for _, job := range r.Jobs() {
		names = append(names, job.Name())
	}
	assert.Equal(t, []string{"cart_sweep", "draft_sweep", "cart_purge"}, names)

	jobs := r.Jobs()
	jobs[0] = nil
	assert.NotNil(t, r.Jobs()[0], "Jobs must return a copy")
}

func TestRegistryRejects(t *testing.T) {
	_, err := NewRegistry(namedJob("a"), namedJob("a"))
	assert.ErrorContains(t, err, "already registered")

	r, err := NewRegistry()
	require.NoError(t, err)
	assert.Error(t, r.Register(nil))
	assert.ErrorContains(t, r.Register(namedJob(" ")), "name is required")
	assert.Empty(t, r.Jobs())
}
