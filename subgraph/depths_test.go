package subgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teranos/ontograph/types"
)

func TestDecrement(t *testing.T) {
	d := GraphResolveDepths{IsOfType: EdgeResolveDepths{Outgoing: 1}}

	next, ok := d.Decrement(types.EdgeIsOfType, Outgoing)
	assert.True(t, ok)
	assert.True(t, next.IsZero())
	assert.Equal(t, uint8(1), d.IsOfType.Outgoing, "receiver is not modified")

	_, ok = next.Decrement(types.EdgeIsOfType, Outgoing)
	assert.False(t, ok)
	_, ok = d.Decrement(types.EdgeIsOfType, Incoming)
	assert.False(t, ok)
	_, ok = d.Decrement("unknownEdge", Outgoing)
	assert.False(t, ok)
}

func TestMaxAndClamp(t *testing.T) {
	var d GraphResolveDepths
	d.Set(types.EdgeHasLeftEntity, EdgeResolveDepths{Incoming: 9, Outgoing: 2})
	d.Set(types.EdgeInheritsFrom, EdgeResolveDepths{Outgoing: 4})

	assert.Equal(t, uint8(9), d.Max())

	clamped := d.Clamp(3)
	assert.Equal(t, EdgeResolveDepths{Incoming: 3, Outgoing: 2}, clamped.Get(types.EdgeHasLeftEntity))
	assert.Equal(t, EdgeResolveDepths{Outgoing: 3}, clamped.Get(types.EdgeInheritsFrom))
	assert.Equal(t, uint8(3), clamped.Max())
	assert.Equal(t, uint8(2), d.Remaining(types.EdgeHasLeftEntity, Outgoing))
}

func TestDepthsString(t *testing.T) {
	assert.Equal(t, "none", GraphResolveDepths{}.String())
	d := GraphResolveDepths{IsOfType: EdgeResolveDepths{Incoming: 1, Outgoing: 2}}
	assert.Equal(t, "isOfType=1/2", d.String())
}
