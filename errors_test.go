package wenyan_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/wenyan"
	"github.com/stretchr/testify/assert"
)

func TestStatusError(t *testing.T) {
	t.Parallel()
	err := &wenyan.StatusError{StatusCode: 404, Message: wenyan.MsgNotFound}
	assert.Equal(t, "HTTP 404: "+wenyan.MsgNotFound, err.Error())
}

func TestIsHandled(t *testing.T) {
	t.Parallel()

	inner := &wenyan.StatusError{StatusCode: 500, Message: wenyan.MsgInternal}
	handled := &wenyan.HandledError{Err: inner}

	assert.True(t, wenyan.IsHandled(handled))
	assert.True(t, wenyan.IsHandled(fmt.Errorf("flash: %w", handled)))
	assert.False(t, wenyan.IsHandled(inner))
	assert.False(t, wenyan.IsHandled(wenyan.ErrNoBody))

	var se *wenyan.StatusError
	assert.True(t, errors.As(handled, &se))
	assert.Equal(t, 500, se.StatusCode)
}
