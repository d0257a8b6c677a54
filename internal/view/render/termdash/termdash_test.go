package termdash

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whaeuser/healthterm/internal/model"
)

func TestSplitRows(t *testing.T) {
	recs := func(keys ...model.MetricType) []model.DisplayRecord {
		res := []model.DisplayRecord{}
		for _, k := range keys {
			res = append(res, model.DisplayRecord{Key: k})
		}
		return res
	}

	tests := []struct {
		name    string
		records []model.DisplayRecord
		cols    int
		exp     [][]model.DisplayRecord
	}{
		{
			name: "No records should not have rows.",
			cols: 2,
			exp:  [][]model.DisplayRecord{},
		},
		{
			name:    "An even number of records should fill all the rows.",
			records: recs(model.MetricSteps, model.MetricActiveEnergy, model.MetricDistance, model.MetricHeartRate),
			cols:    2,
			exp: [][]model.DisplayRecord{
				recs(model.MetricSteps, model.MetricActiveEnergy),
				recs(model.MetricDistance, model.MetricHeartRate),
			},
		},
		{
			name:    "An odd number of records should leave the last row incomplete.",
			records: recs(model.MetricSteps, model.MetricActiveEnergy, model.MetricDistance),
			cols:    2,
			exp: [][]model.DisplayRecord{
				recs(model.MetricSteps, model.MetricActiveEnergy),
				recs(model.MetricDistance),
			},
		},
		{
			name:    "A single column should have a row per record.",
			records: recs(model.MetricSteps, model.MetricActiveEnergy),
			cols:    1,
			exp: [][]model.DisplayRecord{
				recs(model.MetricSteps),
				recs(model.MetricActiveEnergy),
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.exp, splitRows(test.records, test.cols))
		})
	}
}

func TestGridOpts(t *testing.T) {
	all := []model.DisplayRecord{}
	for _, mt := range model.MetricTypes() {
		all = append(all, model.DisplayRecord{
			Key:      mt,
			Title:    string(mt),
			Icon:     "*",
			Amount:   "1",
			Subtitle: "today",
		})
	}
	require.Len(t, all, 9)

	for cols := 1; cols <= 4; cols++ {
		for n := 1; n <= len(all); n++ {
			t.Run(fmt.Sprintf("%d records on %d columns", n, cols), func(t *testing.T) {
				r := &Renderer{cfg: Config{Columns: cols}}

				opts, err := r.gridOpts(all[:n])
				require.NoError(t, err)
				assert.NotEmpty(t, opts)
			})
		}
	}
}
