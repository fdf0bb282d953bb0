package seeder

import "time"

// Generator constants.
const (
	costStep         = 1000
	maxCostSteps     = 150
	mileageStepKM    = 250
	maxMileageJitter = 200
	daysPerRecord    = 3
)

// Runner configuration constants.
const (
	WorkerChannelMultiplier = 2
	PercentageMultiplier    = 100
	maxResponseBytes        = 8 << 20
	progressInterval        = time.Second
)
