package mq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct{ jobs []*EmailJob }

func (r *recorder) PublishEmail(_ context.Context, job *EmailJob) error {
	r.jobs = append(r.jobs, job)
	return nil
}

func TestPublishResetPassword(t *testing.T) {
	r := &recorder{}
	require.NoError(t, PublishResetPassword(context.Background(), r, "a@example.com", "Alice", "http://front/reset/tok"))
	require.Len(t, r.jobs, 1)
	assert.Equal(t, TemplateResetPassword, r.jobs[0].Template)
	assert.Equal(t, "a@example.com", r.jobs[0].To)
	assert.Equal(t, "http://front/reset/tok", r.jobs[0].Data["link"])
}
