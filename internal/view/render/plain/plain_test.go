package plain_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/view/render/plain"
)

func TestRendererRender(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 1, 24, 12, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		records []model.DisplayRecord
		exp     string
	}{
		{
			name: "No records should render the waiting message.",
			exp:  "# 2024-01-24T12:00:00Z\nwaiting for health data...\n",
		},
		{
			name: "Records should be rendered aligned, one per line.",
			records: []model.DisplayRecord{
				{Key: model.MetricSteps, Title: "Daily Steps", Subtitle: "Goal: 10,000", Icon: "figure.walk", Amount: "6450"},
				{Key: model.MetricHeartRate, Title: "Heart Rate", Subtitle: "Average: 72 bpm", Icon: "heart.fill", Amount: "72 bpm"},
			},
			exp: "# 2024-01-24T12:00:00Z\n" +
				"Daily Steps  6450    Goal: 10,000     (figure.walk)\n" +
				"Heart Rate   72 bpm  Average: 72 bpm  (heart.fill)\n",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var out bytes.Buffer
			r, err := plain.New(plain.Config{Out: &out, Now: now})
			require.NoError(t, err)

			err = r.Render(context.Background(), test.records)
			require.NoError(t, err)
			assert.Equal(t, test.exp, out.String())
		})
	}
}

func TestNewRendererWithoutOutput(t *testing.T) {
	_, err := plain.New(plain.Config{})
	assert.Error(t, err)
}
