package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func stringValue() json.RawMessage {
	return json.RawMessage(`{"dtype":"string","_type":"Value"}`)
}

func TestFeature_IsStringValue(t *testing.T) {
	cases := []struct {
		name string
		spec string
		want bool
	}{
		{"string", `{"dtype":"string","_type":"Value"}`, true},
		{"large_string", `{"dtype":"large_string","_type":"Value"}`, true},
		{"int", `{"dtype":"int64","_type":"Value"}`, false},
		{"audio", `{"sampling_rate":16000,"_type":"Audio"}`, false},
		{"garbage", `"string"`, false},
	}
	for _, tc := range cases {
		f := NewFeature(tc.name, json.RawMessage(tc.spec))
		assert.Equal(t, tc.want, f.IsStringValue(), tc.name)
	}
}

func TestTextFieldCandidates(t *testing.T) {
	features := []Feature{
		NewFeature("id", stringValue()),
		NewFeature("text", stringValue()),
		NewFeature("Transcription", stringValue()),
		NewFeature("sentence", json.RawMessage(`{"dtype":"int64","_type":"Value"}`)),
		NewFeature("audio", json.RawMessage(`{"_type":"Audio"}`)),
	}

	got := TextFieldCandidates(features)
	assert.Equal(t, []string{"text", "Transcription"}, got,
		"name match is case-insensitive, dtype must be string")
}

func TestIDFieldCandidates(t *testing.T) {
	features := []Feature{
		NewFeature("text", stringValue()),
		NewFeature("utterance_id", json.RawMessage(`{"dtype":"int64","_type":"Value"}`)),
		NewFeature("guid", stringValue()),
	}

	got := IDFieldCandidates(features)
	assert.Equal(t, []string{"utterance_id", "guid"}, got,
		"id candidates match by name regardless of dtype")
}

func TestCandidates_EmptySchema(t *testing.T) {
	assert.Empty(t, TextFieldCandidates(nil))
	assert.Empty(t, IDFieldCandidates(nil))
}

func TestDescription_CopiesSlices(t *testing.T) {
	splits := []Split{NewSplit("default", "train", 100)}
	d := NewDescription("ds", []string{"default"}, splits, nil)

	splits[0] = NewSplit("other", "test", 1)
	got := d.Splits()
	assert.Equal(t, "train", got[0].Name())
	assert.Equal(t, int64(100), got[0].NumExamples())
}

func TestRow_PreservesCellOrder(t *testing.T) {
	row := NewRow(2, []Cell{
		NewCell("b", json.RawMessage(`1`)),
		NewCell("a", json.RawMessage(`"x"`)),
	})

	assert.Equal(t, 2, row.Index())
	cells := row.Cells()
	assert.Equal(t, "b", cells[0].Name())
	assert.Equal(t, "a", cells[1].Name())
}
