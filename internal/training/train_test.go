package training

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/severity/internal/classifier"
	"github.com/dmitrijs2005/severity/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDataset writes a separable dataset: class 1 rows are all zeros,
// class 4 rows are all ones (A2 uses text labels).
func writeDataset(t *testing.T, rows int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString(header + "\n")
	for i := 0; i < rows; i++ {
		if i%2 == 0 {
			sb.WriteString("0,tidak,0,0,0,0,0,0,0,0,1\n")
		} else {
			sb.WriteString("1,ya,1,1,1,1,1,1,1,1,4\n")
		}
	}
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func TestTrain(t *testing.T) {
	o := DefaultOptions()
	o.DataPath = writeDataset(t, 40)

	res, err := Train(context.Background(), o, logging.Nop{})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 4}, res.Model.Classes)
	assert.Equal(t, 4, res.Report.Total)
	assert.Equal(t, 1.0, res.Report.Accuracy)

	// tidak=0, ya=1
	a2 := res.Model.Features[1]
	assert.Equal(t, classifier.KindCategorical, a2.Kind)
	assert.Equal(t, 1.0, a2.Categories["ya"])
}

func TestTrain_Errors(t *testing.T) {
	o := DefaultOptions()
	o.DataPath = filepath.Join(t.TempDir(), "missing.csv")
	_, err := Train(context.Background(), o, logging.Nop{})
	assert.Error(t, err)

	o.DataPath = writeDataset(t, 4)
	o.Target = "Severity"
	_, err = Train(context.Background(), o, logging.Nop{})
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestEvaluateFile(t *testing.T) {
	o := DefaultOptions()
	o.DataPath = writeDataset(t, 20)
	res, err := Train(context.Background(), o, logging.Nop{})
	require.NoError(t, err)

	r, err := EvaluateFile(context.Background(), res.Model, writeDataset(t, 6), DefaultTarget, logging.Nop{})
	require.NoError(t, err)
	assert.Equal(t, 6, r.Total)
	assert.Equal(t, 1.0, r.Accuracy)

	bad := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte(header+"\n"+fmt.Sprintf("0,%s,0,0,0,0,0,0,0,0,1\n", "mungkin")), 0o600))
	_, err = EvaluateFile(context.Background(), res.Model, bad, DefaultTarget, logging.Nop{})
	assert.Error(t, err)
}
