package employee

import "strings"

// TripleDTO is one employee/department/email assignment. Upstream clients
// submit either structured triples or raw "name;department;email" lines.
type TripleDTO struct {
	Employee   string `json:"employee"`
	Department string `json:"department"`
	Email      string `json:"email"`
}

// BulkUpsertDTO carries a bulk submission. Lines, when present, are parsed
// and appended to Assignments.
type BulkUpsertDTO struct {
	Assignments []TripleDTO `json:"assignments"`
	Lines       string      `json:"lines,omitempty"`
}

// Triples merges structured assignments with parsed lines.
func (dto BulkUpsertDTO) Triples() []TripleDTO {
	triples := make([]TripleDTO, 0, len(dto.Assignments))
	triples = append(triples, dto.Assignments...)

	for _, line := range strings.Split(dto.Lines, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ";", 3)
		triple := TripleDTO{}
		if len(parts) > 0 {
			triple.Employee = strings.TrimSpace(parts[0])
		}
		if len(parts) > 1 {
			triple.Department = strings.TrimSpace(parts[1])
		}
		if len(parts) > 2 {
			triple.Email = strings.TrimSpace(parts[2])
		}
		triples = append(triples, triple)
	}
	return triples
}

// InvalidTriple reports a dropped input together with the reason.
type InvalidTriple struct {
	Triple TripleDTO `json:"triple"`
	Reason string    `json:"reason"`
}

// BulkUpsertResult is returned to the client for reconciliation.
type BulkUpsertResult struct {
	Created []*Record       `json:"created"`
	Updated []*Record       `json:"updated"`
	Invalid []InvalidTriple `json:"invalid,omitempty"`
}
