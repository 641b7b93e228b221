package storage

import "strings"

// Status -
type Status string

// defined statuses
const (
	StatusAwaiting Status = "SENT_AWAITING_PROCESSING"
	StatusSuccess  Status = "SUCCESS"
	StatusFailure  Status = "FAILURE"
)

// labels reported by the order service for terminal states
var terminalLabels = map[string]Status{
	"SUCCESS": StatusSuccess,
	"SUCESSO": StatusSuccess,
	"FAILURE": StatusFailure,
	"FALHA":   StatusFailure,
}

// IsTerminal - true if no further polling or mutation happens after the status
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailure
}

// String -
func (s Status) String() string {
	return string(s)
}

// ParseRemote - maps a label received from the order service to a terminal status.
// Comparison is case-insensitive. Returns false for any label which is not terminal.
func ParseRemote(label string) (Status, bool) {
	status, ok := terminalLabels[strings.ToUpper(strings.TrimSpace(label))]
	return status, ok
}
