package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gnana997/sveltedoc/pkg/model"
)

func TestEventSet_FirstWriteWins(t *testing.T) {
	s := newEventSet()

	assert.True(t, s.add("close", "object"))
	assert.True(t, s.add("open", "void"))
	assert.False(t, s.add("close", "any"))

	assert.Equal(t, []model.EventDoc{
		{Name: "close", Detail: "object"},
		{Name: "open", Detail: "void"},
	}, s.list())
}
