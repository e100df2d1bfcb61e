package canonical

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalSortsKeysAtEveryDepth(t *testing.T) {
	type inner struct {
		Zeta  int `json:"zeta"`
		Alpha int `json:"alpha"`
	}
	v := map[string]any{
		"b": []any{inner{Zeta: 1, Alpha: 2}},
		"a": map[string]any{"y": true, "x": nil},
	}

	got, err := Marshal(v)
	require.NoError(t, err)

	want := `{"a":{"x":null,"y":true},"b":[{"alpha":2,"zeta":1}]}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Marshal mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalKeepsNumberLiterals(t *testing.T) {
	tree, err := Decode([]byte(`{"big":12345678901234567890,"frac":1.50}`))
	require.NoError(t, err)

	got, err := Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t, `{"big":12345678901234567890,"frac":1.50}`, string(got))
}

func TestMarshalDoesNotEscapeHTML(t *testing.T) {
	got, err := Marshal(map[string]string{"name": "Fish & Chips <3"})
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Fish & Chips <3"}`, string(got))
}

func TestMarshalIsStable(t *testing.T) {
	v := map[string]any{"c": 3, "a": 1, "b": map[string]any{"z": 1, "m": 2}}

	first, err := Marshal(v)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Marshal(v)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    any
		wantErr bool
	}{
		{name: "object", input: `{"a":1}`, want: map[string]any{"a": json.Number("1")}},
		{name: "array", input: `[true,"x"]`, want: []any{true, "x"}},
		{name: "invalid", input: `{"a":`, wantErr: true},
		{name: "trailing data", input: `{} {}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
