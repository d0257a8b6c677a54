package query

import (
	"fmt"
	"math"

	"github.com/whaeuser/healthterm/internal/model"
)

// Record icons.
const (
	IconWalk   = "figure.walk"
	IconRun    = "figure.run"
	IconFlame  = "flame.fill"
	IconHeart  = "heart.fill"
	IconMoon   = "moon.stars.fill"
	IconPerson = "person.fill"
	IconLeaf   = "leaf.fill"
)

// truncate returns the integer part of v, truncated toward zero.
func truncate(v float64) int64 {
	return int64(math.Trunc(v))
}

// truncateDecimal truncates v toward zero keeping one decimal.
func truncateDecimal(v float64) float64 {
	return math.Trunc(v*10) / 10
}

// FormatSteps formats the steps of the day.
func FormatSteps(v float64) model.DisplayRecord {
	return model.DisplayRecord{
		Title:    "Daily Steps",
		Subtitle: "Goal: 10,000",
		Icon:     IconWalk,
		Amount:   fmt.Sprintf("%d", truncate(v)),
	}
}

// FormatActiveEnergy formats the active energy burned in kilocalories.
func FormatActiveEnergy(v float64) model.DisplayRecord {
	return model.DisplayRecord{
		Title:    "Calories Burned",
		Subtitle: "Goal: 2,000",
		Icon:     IconFlame,
		Amount:   fmt.Sprintf("%d kcal", truncate(v)),
	}
}

// FormatDistance formats the walking and running distance in meters.
func FormatDistance(v float64) model.DisplayRecord {
	return model.DisplayRecord{
		Title:    "Distance Walking or Running",
		Subtitle: "Goal: Custom Goal",
		Icon:     IconWalk,
		Amount:   fmt.Sprintf("%d meters", truncate(v)),
	}
}

// FormatWeeklyRunningDistance formats the distance of the week in meters.
func FormatWeeklyRunningDistance(v float64) model.DisplayRecord {
	return model.DisplayRecord{
		Title:    "Weekly Running Distance",
		Subtitle: "Goal: 5,000",
		Icon:     IconRun,
		Amount:   fmt.Sprintf("%d meters", truncate(v)),
	}
}

// FormatHeartRate formats the average heart rate in beats per minute.
func FormatHeartRate(v float64) model.DisplayRecord {
	bpm := truncate(v)
	return model.DisplayRecord{
		Title:    "Heart Rate",
		Subtitle: fmt.Sprintf("Average: %d bpm", bpm),
		Icon:     IconHeart,
		Amount:   fmt.Sprintf("%d bpm", bpm),
	}
}

// FormatBloodPressure formats the average systolic and diastolic pressures
// in mmHg.
func FormatBloodPressure(systolic, diastolic float64) (model.DisplayRecord, error) {
	sys, dia := truncate(systolic), truncate(diastolic)
	return model.DisplayRecord{
		Title:    "Blood Pressure",
		Subtitle: fmt.Sprintf("Systolic: %d, Diastolic: %d", sys, dia),
		Icon:     IconHeart,
		Amount:   fmt.Sprintf("%d/%d mmHg", sys, dia),
	}, nil
}

// FormatBodyMassIndex formats the body mass index from the average body
// mass in kilograms and the average height in meters.
func FormatBodyMassIndex(mass, height float64) (model.DisplayRecord, error) {
	if height <= 0 {
		return model.DisplayRecord{}, fmt.Errorf("invalid height %v", height)
	}

	bmi := truncateDecimal(mass / (height * height))
	return model.DisplayRecord{
		Title:    "Body Mass Index",
		Subtitle: fmt.Sprintf("Average: %.1f", bmi),
		Icon:     IconPerson,
		Amount:   fmt.Sprintf("%.1f", bmi),
	}, nil
}

// FormatSleep formats the sleep state of a sleep analysis sample.
func FormatSleep(s model.CategorySample) model.DisplayRecord {
	state := "Asleep"
	if s.Value == model.SleepInBed {
		state = "In Bed"
	}
	return model.DisplayRecord{
		Title:    "Sleep Analysis",
		Subtitle: state,
		Icon:     IconMoon,
		Amount:   state,
	}
}

// FormatDietaryEnergy formats the dietary energy consumed in kilocalories.
func FormatDietaryEnergy(v float64) model.DisplayRecord {
	kcal := truncate(v)
	return model.DisplayRecord{
		Title:    "Dietary Energy",
		Subtitle: fmt.Sprintf("Consumption: %d kcal", kcal),
		Icon:     IconLeaf,
		Amount:   fmt.Sprintf("%d kcal", kcal),
	}
}
