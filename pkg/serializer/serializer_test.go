package serializer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lk2023060901/objkit-go/pkg/util/merr"
)

type inner struct {
	Score float64 `json:"score" msgpack:"score"`
}

type item struct {
	ID     int            `json:"id" msgpack:"id"`
	Name   string         `json:"name" msgpack:"name"`
	Tags   []string       `json:"tags" msgpack:"tags"`
	Counts map[string]int `json:"counts" msgpack:"counts"`
	Inner  *inner         `json:"inner" msgpack:"inner"`
}

func newItem() item {
	return item{
		ID:     42,
		Name:   "pack",
		Tags:   []string{"a", "b"},
		Counts: map[string]int{"x": 1, "y": 2},
		Inner:  &inner{Score: 0.5},
	}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range []Serializer{CBORSerializer{}, MsgPackSerializer{}, JSONSerializer{}} {
		t.Run(s.Name(), func(t *testing.T) {
			orig := newItem()
			b, err := s.Marshal(orig)
			require.NoError(t, err)

			var got item
			require.NoError(t, s.Unmarshal(b, &got))
			assert.Equal(t, orig, got)
		})
	}
}

func TestCBORDeterministic(t *testing.T) {
	s := CBORSerializer{}
	m := map[string]int{}
	for i, k := range []string{"q", "w", "e", "r", "t", "y", "u", "i", "o", "p"} {
		m[k] = i
	}
	first, err := s.Marshal(m)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := s.Marshal(m)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTrailingBytesIgnored(t *testing.T) {
	for _, s := range []Serializer{CBORSerializer{}, MsgPackSerializer{}} {
		t.Run(s.Name(), func(t *testing.T) {
			a, err := s.Marshal("first")
			require.NoError(t, err)
			b, err := s.Marshal("second")
			require.NoError(t, err)

			var got string
			require.NoError(t, s.Unmarshal(append(append([]byte{}, a...), b...), &got))
			assert.Equal(t, "first", got)
		})
	}
}

func TestUnsupportedType(t *testing.T) {
	type withChan struct {
		C chan int
	}
	for _, s := range []Serializer{CBORSerializer{}, MsgPackSerializer{}, JSONSerializer{}} {
		t.Run(s.Name(), func(t *testing.T) {
			_, err := s.Marshal(withChan{C: make(chan int)})
			assert.Error(t, err)
			_, err = s.Marshal(func() {})
			assert.Error(t, err)
		})
	}
}

func TestTypeMismatch(t *testing.T) {
	b, err := CBORSerializer{}.Marshal("text")
	require.NoError(t, err)
	var n int
	assert.Error(t, CBORSerializer{}.Unmarshal(b, &n))
	assert.Error(t, CBORSerializer{}.Unmarshal([]byte{0xff, 0x00}, &n))

	b, err = CBORSerializer{}.Marshal(inner{Score: 1.5})
	require.NoError(t, err)
	var other struct{ Label string }
	assert.Error(t, CBORSerializer{}.Unmarshal(b, &other))
}

func TestProtoSerializer(t *testing.T) {
	s := ProtoSerializer{}
	first, err := s.Marshal(wrapperspb.String("hello"))
	require.NoError(t, err)
	second, err := s.Marshal(wrapperspb.String("world"))
	require.NoError(t, err)

	got := &wrapperspb.StringValue{}
	require.NoError(t, s.Unmarshal(append(append([]byte{}, first...), second...), got))
	assert.True(t, proto.Equal(wrapperspb.String("hello"), got))

	got = &wrapperspb.StringValue{}
	require.NoError(t, s.Unmarshal(second, got))
	assert.Equal(t, "world", got.GetValue())

	_, err = s.Marshal(newItem())
	assert.Error(t, err)
	var plain item
	assert.Error(t, s.Unmarshal(first, &plain))
}

func TestByName(t *testing.T) {
	s, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, NameCBOR, s.Name())

	for _, name := range Names() {
		s, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, s.Name())
	}

	_, err = ByName("gob")
	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
	assert.Equal(t, []string{"cbor", "json", "msgpack", "proto"}, Names())
}
