package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderRef(t *testing.T) {
	ref := GenerateOrderRef()
	assert.True(t, strings.HasPrefix(ref, "KNL-"))
	assert.Len(t, ref, 12)
	assert.Equal(t, strings.ToUpper(ref), ref)

	// Two refs in a row should differ.
	assert.NotEqual(t, ref, GenerateOrderRef())
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Paket Channel Anak":     "paket-channel-anak",
		"  Template  Video!  ":   "template-video",
		"eBook Panduan YouTube":  "ebook-panduan-youtube",
		"100% Siap Pakai":        "100-siap-pakai",
		"---":                    "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}
