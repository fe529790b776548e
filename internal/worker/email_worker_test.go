package worker

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryBackoffExponencial(t *testing.T) {
	assert.Equal(t, time.Minute, retryBackoff(1))
	assert.Equal(t, 2*time.Minute, retryBackoff(2))
	assert.Equal(t, 4*time.Minute, retryBackoff(3))
	assert.Equal(t, 8*time.Minute, retryBackoff(4))
	// Capped.
	assert.Equal(t, 10*time.Minute, retryBackoff(5))
	assert.Equal(t, 10*time.Minute, retryBackoff(20))
}

func TestJobRoundTrip(t *testing.T) {
	payload, err := json.Marshal(InvoiceEmailPayload{InvoiceID: "abc", Attempts: 1})
	require.NoError(t, err)

	data, err := json.Marshal(Job{Type: JobTypeInvoiceEmail, Payload: payload})
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal(data, &job))
	assert.Equal(t, JobTypeInvoiceEmail, job.Type)

	var got InvoiceEmailPayload
	require.NoError(t, json.Unmarshal(job.Payload, &got))
	assert.Equal(t, "abc", got.InvoiceID)
	assert.Equal(t, 1, got.Attempts)
}
