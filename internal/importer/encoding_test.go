package importer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_UTF8(t *testing.T) {
	text, enc, err := Decode("a.csv", []byte("\xEF\xBB\xBFData;Descrizione\n15/03/2024;Caffè"))
	require.NoError(t, err)
	assert.Equal(t, "utf-8", enc)
	assert.Equal(t, "Data;Descrizione\n15/03/2024;Caffè", text)
}

func TestDecode_Latin1(t *testing.T) {
	// 0xE8 is è in both Latin-1 and CP1252; no C1 bytes present.
	text, enc, err := Decode("a.csv", []byte("Caff\xE8 Roma"))
	require.NoError(t, err)
	assert.Equal(t, "latin-1", enc)
	assert.Equal(t, "Caffè Roma", text)
}

func TestDecode_CP1252FallsToFourthCandidate(t *testing.T) {
	// 0x80 is the euro sign in CP1252 and a C1 control in Latin-1.
	data := []byte("Data;Descrizione;Importo\n15/03/2024;Caff\xE8 Pi\xF9 \x80 bar;-3,50\n")

	text, enc, err := Decode("cp1252.csv", data)
	require.NoError(t, err)
	assert.Equal(t, Encodings()[3], enc)
	assert.Equal(t, "windows-1252", enc)
	assert.Contains(t, text, "Caffè Più € bar")
}

func TestDecode_Deterministic(t *testing.T) {
	data := []byte("Caff\xE8 \x80")
	_, first, err := Decode("a.csv", data)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, enc, err := Decode("a.csv", data)
		require.NoError(t, err)
		assert.Equal(t, first, enc)
	}
}

func TestDecode_NoCandidate(t *testing.T) {
	// 0x81 is undefined in CP1252 and a C1 control in Latin-1.
	_, _, err := Decode("broken.csv", []byte("abc\xFF\x81"))
	require.Error(t, err)

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "broken.csv", de.File)
	assert.Equal(t, Encodings(), de.Tried)
	assert.Contains(t, err.Error(), "broken.csv")
}

func TestEncodings_Order(t *testing.T) {
	assert.Equal(t, []string{"utf-8", "latin-1", "iso-8859-1", "windows-1252", "cp1252"}, Encodings())
}
