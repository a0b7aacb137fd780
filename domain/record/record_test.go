package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesKeyOrder(t *testing.T) {
	r, err := Decode([]byte(`{"b":1,"a":2,"c":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, r.Keys())
	assert.Equal(t, 3, r.Len())
}

func TestDecode_DuplicateKeyLastValueWinsFirstPositionKept(t *testing.T) {
	r, err := Decode([]byte(`{"a":1,"b":2,"a":3}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, r.Keys())

	raw, ok := r.Value("a")
	require.True(t, ok)
	assert.Equal(t, "3", string(raw))
}

func TestDecode_RejectsNonObject(t *testing.T) {
	for _, line := range []string{`[1,2]`, `"text"`, `42`, `null`} {
		_, err := Decode([]byte(line))
		assert.ErrorIs(t, err, ErrNotObject, "line %s", line)
	}
}

func TestDecode_RejectsMalformedAndTrailing(t *testing.T) {
	_, err := Decode([]byte(`not json`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"a":1`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"a":1} {"b":2}`))
	assert.ErrorIs(t, err, ErrTrailingData)
}

func TestEncode_RoundTripIsByteIdentical(t *testing.T) {
	line := `{"text":"Hun går til skolen","n":3,"nested":{"x":[1,2]}}`
	r, err := Decode([]byte(line))
	require.NoError(t, err)

	out, err := r.Encode()
	require.NoError(t, err)
	assert.Equal(t, line, string(out))

	// Decoding the produced line and re-encoding yields the same bytes.
	again, err := Decode(out)
	require.NoError(t, err)
	out2, err := again.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(out), string(out2))
}

func TestEncode_NoASCIIOrHTMLEscaping(t *testing.T) {
	r, err := Decode([]byte(`{"text":"æøå"}`))
	require.NoError(t, err)

	r, err = r.Set("alt", "a<b & c>å")
	require.NoError(t, err)

	out, err := r.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{"text":"æøå","alt":"a<b & c>å"}`, string(out))
}

func TestText(t *testing.T) {
	r, err := Decode([]byte(`{"text":" Hun går ","empty":"   ","num":7,"null":null}`))
	require.NoError(t, err)

	got, err := r.Text("text")
	require.NoError(t, err)
	assert.Equal(t, " Hun går ", got, "value must not be trimmed")

	_, err = r.Text("missing")
	assert.ErrorIs(t, err, ErrFieldMissing)

	_, err = r.Text("empty")
	assert.ErrorIs(t, err, ErrFieldInvalid)

	_, err = r.Text("num")
	assert.ErrorIs(t, err, ErrFieldInvalid)

	_, err = r.Text("null")
	assert.ErrorIs(t, err, ErrFieldInvalid)
}

func TestSet_DoesNotMutateReceiver(t *testing.T) {
	orig, err := Decode([]byte(`{"text":"hei"}`))
	require.NoError(t, err)

	augmented, err := orig.Set("alt", "hei|hey")
	require.NoError(t, err)

	assert.False(t, orig.Has("alt"))
	assert.True(t, augmented.Has("alt"))
	assert.Equal(t, []string{"text"}, orig.Keys())
	assert.Equal(t, []string{"text", "alt"}, augmented.Keys())
}

func TestSet_IsIdempotent(t *testing.T) {
	r, err := Decode([]byte(`{"text":"hei"}`))
	require.NoError(t, err)

	once, err := r.Set("alt", "x")
	require.NoError(t, err)
	twice, err := once.Set("alt", "x")
	require.NoError(t, err)

	a, err := once.Encode()
	require.NoError(t, err)
	b, err := twice.Encode()
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
	assert.Equal(t, once.Keys(), twice.Keys())
}

func TestSet_ScenarioAugmentation(t *testing.T) {
	r, err := Decode([]byte(`{"text":"Hun går til skolen"}`))
	require.NoError(t, err)

	r, err = r.Set("alt", "Hun går til skolen|Hun gikk til skolen")
	require.NoError(t, err)

	out, err := r.Encode()
	require.NoError(t, err)
	assert.Equal(t,
		`{"text":"Hun går til skolen","alt":"Hun går til skolen|Hun gikk til skolen"}`,
		string(out))
}
