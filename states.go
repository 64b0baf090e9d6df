package gallery

const (
	// StateLoading waits for the gallery assets before anything is shown.
	StateLoading State = iota
	StateWalkthrough
	StateShutdown
)

func StateName(s State) string {
	switch s {
	case StateLoading:
		return "loading"
	case StateWalkthrough:
		return "walkthrough"
	case StateShutdown:
		return "shutdown"
	}
	return "unknown"
}
