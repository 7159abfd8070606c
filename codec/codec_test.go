package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type header struct {
	Radius float64 `json:"radius"`
	Rows   int     `json:"rows"`
}

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestCodecs_CrossCompatible(t *testing.T) {
	in := header{Radius: 6.5, Rows: 42}

	// go-json output must be readable by encoding/json and vice versa, since
	// the default codec may change between releases.
	data, err := GoJSON{}.Marshal(in)
	require.NoError(t, err)

	var out header
	require.NoError(t, JSON{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	data, err = JSON{}.Marshal(in)
	require.NoError(t, err)

	out = header{}
	require.NoError(t, GoJSON{}.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestMustMarshal(t *testing.T) {
	data := MustMarshal(nil, header{Radius: 1})
	assert.NotEmpty(t, data)

	assert.Panics(t, func() {
		MustMarshal(JSON{}, make(chan int))
	})
}
