// Package rules implements the rule-based alerting engine: fourteen
// independent detection rules across five families (severity clustering,
// volume, symptom pattern, trend, weighted score) followed by a cross-rule
// escalation pass that reconciles corroborating findings per village.
//
// The engine is pure. Every rule reads the same immutable signal snapshot
// and the same reference instant; no rule mutates shared state, performs
// I/O, or reads the clock. Repeated evaluation of an identical
// (signals, reference instant) pair produces identical output. Callers that
// need reproducibility must therefore fix the reference instant explicitly
// rather than passing "now" on each call.
//
// # Rule families
//
//	A1  high-severity cluster    ≥3 high in 24h            → HIGH
//	A2  mixed severity           h≥2 or (h≥1 and m≥2), 24h → HIGH
//	A3  repeated medium          ≥5 medium in 48h          → MEDIUM
//	B1  volume 24h               ≥5 any severity           → MEDIUM
//	B2  volume 48h               ≥5 any severity           → HIGH
//	B3  extreme volume           ≥10 any severity in 48h   → CRITICAL
//	C1  symptom diversity        ≥3 distinct per signal    → MEDIUM
//	C2  fever + loose motion     ≥3 signals with both, 24h → HIGH
//	C3  weakness dominant        ≥4 with weakness, 24h     → MEDIUM
//	D1  rising trend             last 12h > prior 12h, ≥3  → MEDIUM
//	D2  continuous reporting     ≥4 distinct hours, 24h    → MEDIUM
//	D3  long tail                ≥10 low/medium in 72h     → MEDIUM
//	E1  weighted score           severity score ≥10, 24h   → HIGH
//	E2  score growth             score ≥1.5× prior 24h     → MEDIUM
//
// # Escalation
//
// Candidates are grouped by village. A village with two or more candidates
// has every candidate upgraded to HIGH with a corroboration note appended;
// a village with exactly one candidate is dropped from the output entirely.
// Dropping singletons is preserved legacy behavior (see Escalate); the
// final output contains only corroborated alerts.
package rules
