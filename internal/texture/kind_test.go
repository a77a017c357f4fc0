package texture

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyFor(t *testing.T) {
	want := map[Kind]Policy{
		Diffuse:  {GenerateMipMaps: true, ColorIsLinear: false, IsNormalMap: false, AllowCompression: true},
		Specular: {GenerateMipMaps: true, ColorIsLinear: true, IsNormalMap: false, AllowCompression: true},
		Gloss:    {GenerateMipMaps: true, ColorIsLinear: true, IsNormalMap: false, AllowCompression: true},
		Normal:   {GenerateMipMaps: true, ColorIsLinear: true, IsNormalMap: true, AllowCompression: false},
	}
	got := make(map[Kind]Policy)
	for k := range want {
		got[k] = PolicyFor(k)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PolicyFor mismatch (-want +got):\n%s", diff)
	}
}

func TestPolicyForUnknownKindPanics(t *testing.T) {
	assert.Panics(t, func() { PolicyFor(Kind(-1)) })
	assert.Panics(t, func() { PolicyFor(Gloss + 1) })
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{Diffuse, Normal, Specular, Gloss} {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind(" Normal ")
	require.NoError(t, err)
	assert.Equal(t, Normal, got)

	_, err = ParseKind("emission")
	assert.Error(t, err)
	assert.Equal(t, "Kind(9)", Kind(9).String())
}
