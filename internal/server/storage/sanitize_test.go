package storage

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dmitrijs2005/gophdrive/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "notes.txt", want: "notes.txt"},
		{raw: "my report.pdf", want: "my_report.pdf"},
		{raw: "  a   b\tc.txt ", want: "a_b_c.txt"},
		{raw: "../../etc/passwd", want: "etc_passwd"},
		{raw: `C:\Users\me\file.doc`, want: "C_Users_me_file.doc"},
		{raw: "отчёт 2024.txt", want: "отчёт_2024.txt"},
		{raw: "weird$%&*name!.txt", want: "weirdname.txt"},
		{raw: ".hidden", want: "hidden"},
		{raw: "__init__.py", want: "init__.py"},
		{raw: "CON", want: "_CON"},
		{raw: "nul.txt", want: "_nul.txt"},
		{raw: "com1.tar.gz", want: "_com1.tar.gz"},
		{raw: "console.txt", want: "console.txt"},
		{raw: "a-b_c.d", want: "a-b_c.d"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := SanitizeName(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeName_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "..", ".", "/", "$$$", "._._", "???.???"} {
		t.Run(raw, func(t *testing.T) {
			_, err := SanitizeName(raw)
			require.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestSanitizeName_Truncates(t *testing.T) {
	got, err := SanitizeName(strings.Repeat("a", 400) + ".txt")
	require.NoError(t, err)
	assert.Len(t, got, MaxNameBytes)
	assert.True(t, strings.HasSuffix(got, ".txt"))

	got, err = SanitizeName(strings.Repeat("ж", 200) + ".md")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(got), MaxNameBytes)
	assert.True(t, utf8.ValidString(got))
	assert.True(t, strings.HasSuffix(got, ".md"))

	got, err = SanitizeName("x." + strings.Repeat("e", 300))
	require.NoError(t, err)
	assert.Len(t, got, MaxNameBytes)
}
