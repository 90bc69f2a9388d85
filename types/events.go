package types

// Payloads published on the console event bus.

// ModeChange is retained on topic console/mode.
type ModeChange struct {
	From   Mode  `json:"from"`
	To     Mode  `json:"to"`
	Manual bool  `json:"manual,omitempty"` // set by a NextMode button, not the jumpers
	Tick   int64 `json:"tick"`
}

// StatusReport is published on topic console/stats.
type StatusReport struct {
	Mode  Mode                    `json:"mode"`
	Tick  int64                   `json:"tick"`
	Ports [NumEndpoints]PortStats `json:"ports"`
}

// Bus topic tokens: console/mode and console/stats.
const (
	TopicConsole = "console"
	TopicMode    = "mode"
	TopicStats   = "stats"
)
