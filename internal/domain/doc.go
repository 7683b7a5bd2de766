// Package domain models community water health signals and the alerts
// derived from them.
//
// # Data Source
//
// Signals originate from free-text community water reports. The upstream
// extraction service runs each comment through a language model, producing a
// structured record with a closed symptom vocabulary and a severity label,
// and publishes it as flat JSON to the Kafka source topic. Extraction is
// nondeterministic and lives outside this service; the alerting pipeline
// consumes only the structured records.
//
// # Record Conventions
//
// Severity:
//
//	One of "low", "medium", "high". The extractor assigns it from symptom
//	count (1 / 2 / 3+). Any other value is kept as-is with weight 0: it never
//	matches a severity-specific detection rule but still counts toward
//	volume-based rules. Unrecognized severity is not an error.
//
// Symptoms:
//
//	Closed vocabulary of six values: loose motion, fever, stomach pain,
//	vomiting, weakness, headache. An absent or empty array means no symptoms.
//	Values outside the vocabulary are preserved in the set; conformance is
//	the extractor's contract, not enforced here (see [Symptom.Known]).
//
// Timestamps:
//
//	ISO 8601, usually without a zone offset (the extractor emits naive UTC
//	instants). Naive timestamps are interpreted as UTC. A record whose
//	timestamp cannot be parsed is skipped with a warning rather than
//	aborting the evaluation that contains it.
//
// Villages:
//
//	The village name is the aggregation key for every detection rule.
//	Required, whitespace-trimmed, otherwise free-form.
//
// water_source and comment_id are carried through untouched: no detection
// rule reads them. comment_id links a signal back to the raw comment it was
// extracted from.
package domain
