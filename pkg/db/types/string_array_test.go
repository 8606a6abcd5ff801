package dbtypes

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStringArrayScanQuotedLiteral(t *testing.T) {
	var got StringArray
	require.NoError(t, got.Scan(`{"PC","PlayStation 5","Xbox Series X"}`))
	require.Equal(t, StringArray{"PC", "PlayStation 5", "Xbox Series X"}, got)
}

func TestStringArrayScanBareAndEmpty(t *testing.T) {
	var got StringArray
	require.NoError(t, got.Scan([]byte("{RPG, Fantasy}")))
	require.Equal(t, StringArray{"RPG", "Fantasy"}, got)

	require.NoError(t, got.Scan("{}"))
	require.Empty(t, got)

	require.NoError(t, got.Scan(nil))
	require.Empty(t, got)
}

func TestStringArrayValueEscapes(t *testing.T) {
	in := StringArray{`Say "hi"`, "a,b", `back\slash`}
	v, err := in.Value()
	require.NoError(t, err)

	var out StringArray
	require.NoError(t, out.Scan(v))
	require.Equal(t, in, out)
}

func TestStringArrayRejectsMalformed(t *testing.T) {
	var got StringArray
	require.Error(t, got.Scan("PC,Mobile"))
	require.Error(t, got.Scan(`{"PC}`))
	require.Error(t, got.Scan(42))
}
