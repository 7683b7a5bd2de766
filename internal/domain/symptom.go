package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// Symptom is one entry from the extractor's closed symptom vocabulary.
type Symptom string

const (
	SymptomLooseMotion Symptom = "loose motion"
	SymptomFever       Symptom = "fever"
	SymptomStomachPain Symptom = "stomach pain"
	SymptomVomiting    Symptom = "vomiting"
	SymptomWeakness    Symptom = "weakness"
	SymptomHeadache    Symptom = "headache"
)

// Known reports whether the symptom belongs to the closed vocabulary.
func (s Symptom) Known() bool {
	switch s {
	case SymptomLooseMotion, SymptomFever, SymptomStomachPain,
		SymptomVomiting, SymptomWeakness, SymptomHeadache:
		return true
	default:
		return false
	}
}

// SymptomSet is the deduplicated set of symptoms in one signal.
type SymptomSet map[Symptom]struct{}

// ParseSymptoms builds a SymptomSet from raw strings, trimming and
// lowercasing each entry and dropping empties. Values outside the closed
// vocabulary are kept: detection rules count distinct symptoms without
// validating them, matching the extractor contract.
func ParseSymptoms(raw []string) SymptomSet {
	if len(raw) == 0 {
		return nil
	}
	set := make(SymptomSet, len(raw))
	for _, r := range raw {
		s := Symptom(strings.ToLower(strings.TrimSpace(r)))
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

// Has reports whether the set contains the given symptom.
func (s SymptomSet) Has(sym Symptom) bool {
	_, ok := s[sym]
	return ok
}

// Count returns the number of distinct symptoms.
func (s SymptomSet) Count() int { return len(s) }

// Slice returns the symptoms in sorted order for stable serialization.
func (s SymptomSet) Slice() []Symptom {
	if len(s) == 0 {
		return nil
	}
	out := make([]Symptom, 0, len(s))
	for sym := range s {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalJSON encodes the set as a sorted JSON array of strings.
func (s SymptomSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slice())
}

// UnmarshalJSON decodes a JSON array of strings into a normalized set.
func (s *SymptomSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseSymptoms(raw)
	return nil
}
