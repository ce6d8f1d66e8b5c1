// =============================================================================
// Ticket Sorter - Main Entry Point
// =============================================================================
//
// USAGE:
//   ticketsort [input] [output]   - Sort an export for triage
//   ticketsort validate [input]   - Check an export without sorting it
//   ticketsort version            - Display the application version
//
// LAYOUT:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Reading, validation, sorting and writing
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/jira-ticket-sorter/cmd"
)

func main() {
	cmd.Execute()
}
