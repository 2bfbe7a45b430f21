package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"utf8", []byte("Kullanıcı giriş yapmalı\n"), "Kullanıcı giriş yapmalı\n"},
		{"utf8 bom", append([]byte{0xEF, 0xBB, 0xBF}, "req"...), "req"},
		{"utf16 le bom", []byte{0xFF, 0xFE, 'o', 0, 'k', 0}, "ok"},
		{"crlf", []byte("a\r\nb\rc"), "a\nb\nc"},
		{"windows-1252", []byte{'c', 'a', 'f', 0xE9}, "café"},
		{"keeps blank lines and indentation", []byte("  one\n\n  two"), "  one\n\n  two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeText(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeTextEmpty(t *testing.T) {
	_, err := DecodeText(nil)
	assert.Error(t, err)
}

func TestLooksLikeText(t *testing.T) {
	assert.True(t, LooksLikeText("The system shall lock the account after 3 failed attempts."))
	assert.True(t, LooksLikeText("Şifre en az 8 karakter olmalı.\n\tDetay"))
	assert.False(t, LooksLikeText("\x00\x01\x02\x03\x04PK\x03\x04"))
	assert.False(t, LooksLikeText(""))
}
