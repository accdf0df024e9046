package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Raw
	}{
		{"true", Bool(true)},
		{"false", Bool(false)},
		{"42", Int(42)},
		{"-3", Int(-3)},
		{"9:41", String("9:41")},
		{"", String("")},
		{"0.5", String("0.5")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.in))
		})
	}
}

func TestNativeRoundTrip(t *testing.T) {
	for _, r := range []Raw{Bool(true), Int(7), String("x")} {
		n, ok := r.Native()
		require.True(t, ok)
		back, ok := FromNative(n)
		require.True(t, ok)
		assert.Equal(t, r, back)
	}

	_, ok := Raw{}.Native()
	assert.False(t, ok, "zero value must not encode")
}

func TestFromNativeRejectsUnsupported(t *testing.T) {
	for _, v := range []any{1.5, []any{1}, map[string]any{}, nil, uint64(1) << 63} {
		_, ok := FromNative(v)
		assert.False(t, ok, "%T should be rejected", v)
	}
	r, ok := FromNative(uint64(12))
	require.True(t, ok)
	assert.Equal(t, Int(12), r)
}

func TestYAMLDecode(t *testing.T) {
	var got map[string]Raw
	src := "a: true\nb: 3\nc: hello\nd: \"true\"\ne:\nf: 0.5\n"
	require.NoError(t, yaml.Unmarshal([]byte(src), &got))

	assert.Equal(t, Bool(true), got["a"])
	assert.Equal(t, Int(3), got["b"])
	assert.Equal(t, String("hello"), got["c"])
	assert.Equal(t, String("true"), got["d"])
	assert.Equal(t, String(""), got["e"])
	assert.Equal(t, String("0.5"), got["f"])
}

func TestYAMLRejectsNonScalar(t *testing.T) {
	var got map[string]Raw
	err := yaml.Unmarshal([]byte("a: [1, 2]\n"), &got)
	assert.Error(t, err)
}

func TestText(t *testing.T) {
	assert.Equal(t, "true", Bool(true).Text())
	assert.Equal(t, "12", Int(12).Text())
	assert.Equal(t, "", String("").Text())
	assert.Equal(t, "", Raw{}.Text())
}

func TestPatchSetKeysSorted(t *testing.T) {
	p := PatchSet{"b": Int(1), "a": Int(2), "c": Int(3)}
	assert.Equal(t, []string{"a", "b", "c"}, p.Keys())
}
