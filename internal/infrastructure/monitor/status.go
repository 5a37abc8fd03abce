package monitor

import "time"

type Status struct {
	Redis       bool      `json:"redis"`
	Preferences bool      `json:"preferences"`
	LastCheck   time.Time `json:"last_check"`
}
