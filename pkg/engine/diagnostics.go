package engine

import (
	"fmt"
	"slices"
)

// DiagnosticKind classifies a problem found while building the graph.
type DiagnosticKind int

const (
	// UnknownPrerequisite: an upgrade requires an ID that is not defined.
	// The edge is dropped.
	UnknownPrerequisite DiagnosticKind = iota
	// CyclicDependency: the upgrade lies on a cycle or depends on one. It is
	// pinned to layer 0.
	CyclicDependency
	// DuplicateID: the ID was defined more than once. The first definition
	// is kept.
	DuplicateID
	// InvalidID: a definition has an empty or malformed ID and is skipped.
	InvalidID
)

var kindNames = map[DiagnosticKind]string{
	UnknownPrerequisite: "unknown_prerequisite",
	CyclicDependency:    "cyclic_dependency",
	DuplicateID:         "duplicate_id",
	InvalidID:           "invalid_id",
}

func (k DiagnosticKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("DiagnosticKind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k DiagnosticKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// UnmarshalText decodes a kind name.
func (k *DiagnosticKind) UnmarshalText(b []byte) error {
	for kind, name := range kindNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown diagnostic kind %q", b)
}

// Severity reports how serious a diagnostic kind is.
func (k DiagnosticKind) Severity() Severity {
	if k == CyclicDependency {
		return SeverityError
	}
	return SeverityWarning
}

// Severity is the level a diagnostic is logged at.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic describes one anomaly found during a build. Builds never fail;
// diagnostics are how problems are surfaced to the operator.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind"`
	Severity Severity       `json:"severity"`
	Node     string         `json:"node,omitempty"`
	Ref      string         `json:"ref,omitempty"` // missing prerequisite for UnknownPrerequisite
	Message  string         `json:"message"`
}

func (d Diagnostic) String() string { return d.Message }

// Report collects the diagnostics of a build in the order they were found.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

func (r *Report) add(kind DiagnosticKind, node, ref, format string, args ...any) Diagnostic {
	d := Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		Node:     node,
		Ref:      ref,
		Message:  fmt.Sprintf(format, args...),
	}
	r.Diagnostics = append(r.Diagnostics, d)
	return d
}

// Empty reports whether there are no diagnostics.
func (r Report) Empty() bool { return len(r.Diagnostics) == 0 }

// HasErrors reports whether any diagnostic has error severity.
func (r Report) HasErrors() bool {
	return slices.ContainsFunc(r.Diagnostics, func(d Diagnostic) bool {
		return d.Severity == SeverityError
	})
}

// Count returns the number of diagnostics of the given kind.
func (r Report) Count(kind DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// ForNode returns the diagnostics concerning the given upgrade.
func (r Report) ForNode(id string) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if d.Node == id {
			out = append(out, d)
		}
	}
	return out
}
