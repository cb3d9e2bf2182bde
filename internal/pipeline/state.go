package pipeline

// State is a pipeline position. Cleaned and Aborted are terminal.
type State int

const (
	StateConfigured State = iota
	StateBuildsSpecified
	StateProductReleaseResolved
	StateArchesValidated
	StateWorkdirReady
	StateBuildsGathered
	StateInspectionsRun
	StateResultsFormatted
	StateCleaned
	StateAborted
)

var stateNames = [...]string{
	"configured",
	"builds_specified",
	"product_release_resolved",
	"arches_validated",
	"workdir_ready",
	"builds_gathered",
	"inspections_run",
	"results_formatted",
	"cleaned",
	"aborted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == StateCleaned || s == StateAborted
}
