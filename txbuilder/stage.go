package txbuilder

// Stage is the position of a Builder in the build pipeline. Stages only
// move forward: Collecting, Staged, Signed, Broadcast.
type Stage uint8

const (
	// Collecting accepts draft mutations.
	Collecting Stage = iota
	// Staged has a draft artifact on disk.
	Staged
	// Signed has had the artifact signed by the wallet executable.
	Signed
	// Broadcast has been accepted by the wallet executable for relay.
	Broadcast
)

func (s Stage) String() string {
	switch s {
	case Collecting:
		return "collecting"
	case Staged:
		return "staged"
	case Signed:
		return "signed"
	case Broadcast:
		return "broadcast"
	default:
		return "unknown"
	}
}
