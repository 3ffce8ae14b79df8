package tasks

// Phase is a step in the per-file pipeline. Transitions are strictly
// forward; Done and Error are terminal.
type Phase int

const (
	Pending Phase = iota
	Downloading
	Hashing
	Duplicate
	Parsing
	Uploading
	Attaching
	Done
	Errored
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Downloading:
		return "downloading"
	case Hashing:
		return "hashing"
	case Duplicate:
		return "duplicate"
	case Parsing:
		return "parsing"
	case Uploading:
		return "uploading"
	case Attaching:
		return "attaching"
	case Done:
		return "done"
	case Errored:
		return "error"
	default:
		return ""
	}
}

// Terminal reports whether no further transitions occur from p.
func (p Phase) Terminal() bool {
	return p == Done || p == Errored
}
