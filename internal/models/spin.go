package models

// TriggerSource identifies which entry point initiated a spin attempt
type TriggerSource string

const (
	TriggerHost TriggerSource = "host"
	TriggerAuto TriggerSource = "auto"
	TriggerCron TriggerSource = "cron"
)

// SpinOutcome is what a successful spin attempt returns to its trigger
type SpinOutcome struct {
	FinalAngle float64 `json:"final_angle"`
	Duration   int     `json:"duration"`
	WinnerName string  `json:"winner_name"`
	WinnerID   string  `json:"winner_id"`
}

// SweepEntry is the per-wheel result of one cron sweep pass
type SweepEntry struct {
	WheelID string `json:"wheel_id"`
	Status  string `json:"status"` // "spun", "skipped" or "error"
	Reason  string `json:"reason,omitempty"`
	Winner  string `json:"winner,omitempty"`
}
