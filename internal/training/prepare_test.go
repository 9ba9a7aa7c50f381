package training

import (
	"strings"
	"testing"

	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepare(t *testing.T) {
	src := header + "\n" +
		"1,tinggi,2,1,0,1,0,2,1,0,3\n" +
		"0,rendah,0,0,0,0,0,0,0,0,1\n"
	ds, err := ReadCSV(strings.NewReader(src))
	require.NoError(t, err)

	m, err := Prepare(ds, "Tingkat Keparahan")
	require.NoError(t, err)

	require.Len(t, m.Features, common.FeatureCount)
	assert.Equal(t, classifier.KindNumeric, m.Features[0].Kind)
	assert.Equal(t, classifier.KindCategorical, m.Features[1].Kind)

	// rendah < tinggi
	assert.Equal(t, 1.0, m.X[0][1])
	assert.Equal(t, 0.0, m.X[1][1])
	assert.Equal(t, 2.0, m.X[0][2])
	assert.Equal(t, []int{3, 1}, m.Y)
}

func TestPrepare_TextTarget(t *testing.T) {
	src := header + "\n" +
		"0,0,0,0,0,0,0,0,0,0,Sedang\n" +
		"0,0,0,0,0,0,0,0,0,0,Berat\n" +
		"0,0,0,0,0,0,0,0,0,0,Ringan\n"
	ds, err := ReadCSV(strings.NewReader(src))
	require.NoError(t, err)

	m, err := Prepare(ds, "Tingkat Keparahan")
	require.NoError(t, err)
	// Berat=1, Ringan=2, Sedang=3
	assert.Equal(t, []int{3, 1, 2}, m.Y)
}

func TestPrepare_Errors(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("A1,A2\n1,2\n"))
	require.NoError(t, err)
	_, err = Prepare(ds, "Tingkat Keparahan")
	assert.ErrorIs(t, err, ErrMissingColumn)

	ds, err = ReadCSV(strings.NewReader(header + "\n0,0,0,0,0,0,0,0,0,0,1.5\n"))
	require.NoError(t, err)
	_, err = Prepare(ds, "Tingkat Keparahan")
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	ds, err = ReadCSV(strings.NewReader(header + "\n0,0,0,0,0,0,0,0,0,0,a\n0,0,0,0,0,0,0,0,0,0,b\n" +
		"0,0,0,0,0,0,0,0,0,0,c\n0,0,0,0,0,0,0,0,0,0,d\n0,0,0,0,0,0,0,0,0,0,e\n"))
	require.NoError(t, err)
	_, err = Prepare(ds, "Tingkat Keparahan")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSplit(t *testing.T) {
	train, test := Split(20, 0.1, 42)
	assert.Len(t, train, 18)
	assert.Len(t, test, 2)

	seen := map[int]bool{}
	for _, i := range append(append([]int{}, train...), test...) {
		assert.False(t, seen[i])
		seen[i] = true
	}
	assert.Len(t, seen, 20)

	train2, test2 := Split(20, 0.1, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, test, test2)

	// ceil(0.1 * 5) = 1
	_, test = Split(5, 0.1, 1)
	assert.Len(t, test, 1)

	// a single row stays in training
	train, test = Split(1, 0.5, 1)
	assert.Len(t, train, 1)
	assert.Empty(t, test)

	train, test = Split(0, 0.1, 1)
	assert.Empty(t, train)
	assert.Empty(t, test)
}
