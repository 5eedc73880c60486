package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapData(t *testing.T) {
	assert.JSONEq(t, `{"id":"1"}`, string(UnwrapData(json.RawMessage(`{"data":{"id":"1"}}`))))
	assert.JSONEq(t, `{"id":"1"}`, string(UnwrapData(json.RawMessage(`{"id":"1"}`))))
	assert.Nil(t, UnwrapData(nil))
}

func TestDecodeList(t *testing.T) {
	type item struct {
		ID string `json:"id"`
	}

	tests := []struct {
		name string
		raw  string
		want int
	}{
		{name: "bare array", raw: `[{"id":"1"},{"id":"2"}]`, want: 2},
		{name: "page content", raw: `{"content":[{"id":"1"}],"totalElements":1}`, want: 1},
		{name: "data envelope", raw: `{"data":[{"id":"1"}]}`, want: 1},
		{name: "nested page", raw: `{"data":{"content":[{"id":"1"},{"id":"2"},{"id":"3"}]}}`, want: 3},
		{name: "unrecognised", raw: `{"foo":1}`, want: 0},
		{name: "empty", raw: ``, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := DecodeList[item](json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestDecode_Empty(t *testing.T) {
	var v map[string]interface{}
	assert.Error(t, Decode(nil, &v))
}
