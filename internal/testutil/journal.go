package testutil

// Journal records an ordered trace of labelled steps so tests can assert
// call ordering across participants and commands.
type Journal struct {
	entries []string
}

// Record appends one step label.
func (j *Journal) Record(step string) {
	j.entries = append(j.entries, step)
}

// Entries returns the recorded steps in order.
func (j *Journal) Entries() []string {
	return append([]string(nil), j.entries...)
}

// Reset clears the trace.
func (j *Journal) Reset() {
	j.entries = nil
}
