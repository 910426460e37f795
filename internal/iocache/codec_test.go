package iocache

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"short", []byte("abc")},
		{"repetitive", bytes.Repeat([]byte(`{"commit":"a1f3c9e","file":"src/app.js"},`), 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed, err := Compress(tt.data)
			require.NoError(t, err)
			unpacked, err := Decompress(packed)
			require.NoError(t, err)
			assert.Equal(t, tt.data, unpacked)
		})
	}
}

func TestCompressShrinksRepetitiveData(t *testing.T) {
	data := bytes.Repeat([]byte("line of code\n"), 1000)
	packed, err := Compress(data)
	require.NoError(t, err)
	assert.Equal(t, modeLZ4, packed[0])
	assert.Less(t, len(packed), len(data))
}

func TestDecompressErrors(t *testing.T) {
	_, err := Decompress([]byte{0, 0})
	assert.Error(t, err)

	_, err = Decompress([]byte{9, 0, 0, 0, 0})
	assert.Error(t, err)

	_, err = Decompress([]byte{modeRaw, 0, 0, 0, 5, 'a'})
	assert.Error(t, err)
}
