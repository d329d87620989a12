package uictl_test

import (
	"testing"

	"github.com/alkime/sessions/pkg/uictl"
	"github.com/stretchr/testify/assert"
)

type fixedDial struct{ num, max int }

func (d fixedDial) Read() int {
	return d.num
}

func (d fixedDial) Cap() (int, int) {
	return d.num, d.max
}

func TestPosition(t *testing.T) {
	assert.Equal(t, "2/3", uictl.Position[int](fixedDial{num: 2, max: 3}))
	assert.Equal(t, "1/1", uictl.Position[int](fixedDial{num: 1, max: 1}))
}
