package eventstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedEvent struct {
	Name string `json:"name"`
}

func (e *taggedEvent) EventType() string { return "tagged" }

func TestRegistryDecodesRegisteredType(t *testing.T) {
	r := NewRegistry()
	r.Register("tagged", func() Event { return &taggedEvent{} })

	ev, err := r.Decode("tagged", []byte(`{"name":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, "x", ev.(*taggedEvent).Name)
}

func TestRegistryRejectsUnknownType(t *testing.T) {
	r := NewRegistry()
	_, err := r.Decode("missing", []byte(`{}`))
	assert.Error(t, err)
}

func TestRegistryRejectsMalformedPayload(t *testing.T) {
	r := NewRegistry()
	r.Register("tagged", func() Event { return &taggedEvent{} })
	_, err := r.Decode("tagged", []byte(`{`))
	assert.Error(t, err)
}

func TestRegistryPanicsOnDuplicateTag(t *testing.T) {
	r := NewRegistry()
	r.Register("tagged", func() Event { return &taggedEvent{} })
	assert.Panics(t, func() {
		r.Register("tagged", func() Event { return &taggedEvent{} })
	})
}
