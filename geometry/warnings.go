package geometry

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// Warning type constants
const (
	WarningUnknownRoute           = "unknown_route"
	WarningUnsequencedMembership  = "unsequenced_membership"
	WarningMissingEntryAttachment = "missing_entry_attachment"
	WarningMissingExitAttachment  = "missing_exit_attachment"
	WarningIsolatedBranchStop     = "isolated_branch_stop"
	WarningUnknownVehicleRoute    = "unknown_vehicle_route"
)

// warningInfo holds aggregated information about a specific warning type
type warningInfo struct {
	count    int
	examples []string
}

// WarningAggregator collects data-quality warnings and logs one consolidated
// line per warning type
type WarningAggregator struct {
	warnings map[string]*warningInfo
}

// NewWarningAggregator creates a new warning aggregator
func NewWarningAggregator() *WarningAggregator {
	return &WarningAggregator{
		warnings: make(map[string]*warningInfo),
	}
}

// Add records a warning occurrence with an example ID
func (w *WarningAggregator) Add(warningType, exampleID string) {
	if w.warnings[warningType] == nil {
		w.warnings[warningType] = &warningInfo{
			examples: make([]string, 0, 3),
		}
	}

	info := w.warnings[warningType]
	info.count++

	// Store up to 3 examples
	if len(info.examples) < 3 {
		info.examples = append(info.examples, exampleID)
	}
}

// Count returns how many times warningType was recorded
func (w *WarningAggregator) Count(warningType string) int {
	if info := w.warnings[warningType]; info != nil {
		return info.count
	}
	return 0
}

// Examples returns up to three example ids recorded for warningType
func (w *WarningAggregator) Examples(warningType string) []string {
	if info := w.warnings[warningType]; info != nil {
		return append([]string(nil), info.examples...)
	}
	return nil
}

// Empty reports whether no warning was recorded
func (w *WarningAggregator) Empty() bool { return len(w.warnings) == 0 }

// LogAll outputs all collected warnings in consolidated format
func (w *WarningAggregator) LogAll(component, networkName string) {
	if len(w.warnings) == 0 {
		return
	}

	types := make([]string, 0, len(w.warnings))
	for t := range w.warnings {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, warningType := range types {
		log.Printf("%s", w.formatWarningMessage(warningType, component, networkName, w.warnings[warningType]))
	}
}

// formatWarningMessage creates a human-readable warning message
func (w *WarningAggregator) formatWarningMessage(warningType, component, networkName string, info *warningInfo) string {
	var description, action string

	switch warningType {
	case WarningUnknownRoute:
		description = "memberships referencing routes absent from the route list"
		action = "Skipping those memberships"
	case WarningUnsequencedMembership:
		description = "routes with missing or non-finite stop_sequence values"
		action = "Ordering those routes by nearest-neighbor tour"
	case WarningMissingEntryAttachment:
		description = "branches with no main stop at floor(first)-1"
		action = "Drawing the branch without an entry link"
	case WarningMissingExitAttachment:
		description = "branches with no main stop at floor(last)+1"
		action = "Drawing the branch without an exit link"
	case WarningIsolatedBranchStop:
		description = "routes with a single branch stop"
		action = "Drawing only the link edges that resolve"
	case WarningUnknownVehicleRoute:
		description = "vehicles on routes absent from the route list"
		action = "Dropping those vehicles from the overlay"
	default:
		description = "unknown issue"
		action = "Continuing with partial geometry"
	}

	examplesStr := strings.Join(info.examples, ", ")

	return fmt.Sprintf("[%s] Network %s has %s (%d occurrences). %s. Examples: %s",
		component, networkName, description, info.count, action, examplesStr)
}
