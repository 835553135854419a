package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext(t *testing.T) {
	tests := []struct {
		from    State
		event   Event
		want    State
		wantErr bool
	}{
		{Idle, EventStart, Pending, false},
		{Pending, EventSuccess, Succeeded, false},
		{Pending, EventFailure, Failed, false},
		{Idle, EventClose, Idle, false},
		{Pending, EventClose, Idle, false},
		{Succeeded, EventClose, Idle, false},
		{Failed, EventClose, Idle, false},
		{Idle, EventSuccess, Idle, true},
		{Idle, EventFailure, Idle, true},
		{Pending, EventStart, Pending, true},
		{Succeeded, EventFailure, Succeeded, true},
		{Failed, EventSuccess, Failed, true},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"/"+tt.event.String(), func(t *testing.T) {
			got, err := Next(tt.from, tt.event)
			assert.Equal(t, tt.want, got)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStateText(t *testing.T) {
	b, err := Pending.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "pending", string(b))
	assert.Equal(t, "state(9)", State(9).String())
}
