package bollywood

// PID addresses a spawned actor. IDs are "<name>-<n>" and never reused by an engine.
type PID struct {
	ID string
}

func (pid *PID) String() string {
	if pid == nil {
		return "<nil>"
	}
	return pid.ID
}
