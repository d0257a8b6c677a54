package render

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/whaeuser/healthterm/internal/model"
)

const defAccentColor = "#95a5a6"

var accentColors = map[model.MetricType]string{
	model.MetricSteps:                 "#2ecc71",
	model.MetricActiveEnergy:          "#e67e22",
	model.MetricDistance:              "#1abc9c",
	model.MetricWeeklyRunningDistance: "#3498db",
	model.MetricHeartRate:             "#e74c3c",
	model.MetricBloodPressure:         "#c0392b",
	model.MetricSleepState:            "#9b59b6",
	model.MetricBodyMassIndex:         "#f1c40f",
	model.MetricDietaryEnergy:         "#27ae60",
}

// AccentColor returns the RGB accent color of a metric card.
func AccentColor(mt model.MetricType) (r, g, b uint8) {
	hex, ok := accentColors[mt]
	if !ok {
		hex = defAccentColor
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(defAccentColor)
	}

	return c.RGB255()
}
