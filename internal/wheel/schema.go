package wheel

import (
	"fmt"
)

// SchemaVersion identifies this revision of the segment table. The
// server embeds its own table in every spin response; Verify checks the
// two stayed in lock-step.
const SchemaVersion = 1

// Segment is one slice of the reward wheel. Index position in the
// table is the contract with the server.
type Segment struct {
	Label  string
	Tokens int64
	Respin bool
}

// Segments returns the wheel's outcome table in fixed clockwise order.
func Segments() []Segment {
	return []Segment{
		{Label: "RESPIN", Tokens: 0, Respin: true},
		{Label: "0", Tokens: 0},
		{Label: "100", Tokens: 100},
		{Label: "200", Tokens: 200},
		{Label: "300", Tokens: 300},
		{Label: "400", Tokens: 400},
		{Label: "500", Tokens: 500},
		{Label: "600", Tokens: 600},
		{Label: "700", Tokens: 700},
		{Label: "800", Tokens: 800},
		{Label: "900", Tokens: 900},
		{Label: "1,000", Tokens: 1000},
		{Label: "2,500", Tokens: 2500},
	}
}

// Labels returns the table's labels in index order, the same shape the
// server reports as its fingerprint.
func Labels() []string {
	segs := Segments()
	labels := make([]string, len(segs))
	for i, s := range segs {
		labels[i] = s.Label
	}
	return labels
}

// Verify checks the server's outcome table against the local one.
func Verify(version int, labels []string) error {
	if version != SchemaVersion {
		return fmt.Errorf("wheel schema version mismatch: server %d, client %d", version, SchemaVersion)
	}
	local := Labels()
	if len(labels) != len(local) {
		return fmt.Errorf("wheel segment count mismatch: server %d, client %d", len(labels), len(local))
	}
	for i, l := range labels {
		if l != local[i] {
			return fmt.Errorf("wheel segment %d mismatch: server %q, client %q", i, l, local[i])
		}
	}
	return nil
}
