package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which tenant and URL columns hide.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the status text column.
	LayoutWideWidth = 130
)

// Panel limits.
const (
	// PanelLogLines is the number of log lines shown under an expanded row.
	PanelLogLines = 12

	// ActivityLineLimit is the number of dashboard log lines kept for the activity view.
	ActivityLineLimit = 500
)

// Timing constants.
const (
	// ActivityRefreshInterval is how often the activity view rereads the log file.
	ActivityRefreshInterval = 2 * time.Second
)
