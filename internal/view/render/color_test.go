package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/view/render"
)

func TestAccentColor(t *testing.T) {
	tests := []struct {
		name string
		mt   model.MetricType
		expR uint8
		expG uint8
		expB uint8
	}{
		{
			name: "A known metric should have its color.",
			mt:   model.MetricHeartRate,
			expR: 0xe7, expG: 0x4c, expB: 0x3c,
		},
		{
			name: "An unknown metric should have the default color.",
			mt:   model.MetricType("unknown"),
			expR: 0x95, expG: 0xa5, expB: 0xa6,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, g, b := render.AccentColor(test.mt)
			assert.Equal(t, test.expR, r)
			assert.Equal(t, test.expG, g)
			assert.Equal(t, test.expB, b)
		})
	}
}
