package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *recordingAck) Ack(uint64, bool) error { a.acked = true; return nil }

func (a *recordingAck) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *recordingAck) Reject(_ uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, req ParseRequest) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func TestHandle_AckNackRequeue(t *testing.T) {
	q := &RabbitMQ{queue: "resume_parse", logger: log.New(io.Discard, "", 0)}
	req := ParseRequest{ResumeID: uuid.New(), CandidateID: uuid.New()}

	tests := []struct {
		name    string
		err     error
		acked   bool
		requeue bool
	}{
		{"success", nil, true, false},
		{"parse failure", errors.New("extract text: read pdf"), false, false},
		{"shutdown", fmt.Errorf("parse: %w", context.Canceled), false, true},
		{"timeout", context.DeadlineExceeded, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := &recordingAck{}
			var got ParseRequest
			q.handle(context.Background(), "c1", delivery(t, ack, req), func(_ context.Context, r ParseRequest) error {
				got = r
				return tt.err
			})

			assert.Equal(t, req, got)
			assert.Equal(t, tt.acked, ack.acked)
			assert.Equal(t, !tt.acked, ack.nacked)
			assert.Equal(t, tt.requeue, ack.requeue)
		})
	}
}

func TestHandle_RejectsBadPayload(t *testing.T) {
	q := &RabbitMQ{queue: "resume_parse", logger: log.New(io.Discard, "", 0)}
	ack := &recordingAck{}
	called := false

	q.handle(context.Background(), "c1", amqp.Delivery{Acknowledger: ack, Body: []byte(`{"resume_id":""}`)},
		func(context.Context, ParseRequest) error {
			called = true
			return nil
		})

	assert.False(t, called)
	assert.True(t, ack.nacked)
	assert.False(t, ack.requeue)
}
