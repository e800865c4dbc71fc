package config

const (
	DefaultTimeZone = "Europe/London"

	// Fast Pass defaults
	DefaultFuzzyThreshold = 0.85
	BatchSize             = 500

	// Re-codification Job Constants
	DefaultRecodifySchedule = "0 18 * * *" // Re-match pending items at 6 PM daily
	RecodifyBatchSize       = 500
)
