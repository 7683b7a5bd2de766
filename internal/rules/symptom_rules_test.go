package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/water-health-alerting/internal/domain"
)

func TestSymptomDiversityFiresPerSignal(t *testing.T) {
	s := snap([]domain.Signal{
		sig("Riverside", domain.SeverityLow, time.Hour, "fever", "vomiting", "headache"),
		sig("Riverside", domain.SeverityLow, 2*time.Hour, "fever", "vomiting", "headache", "weakness"),
		sig("Riverside", domain.SeverityLow, 3*time.Hour, "fever", "vomiting"),
	})

	alerts := detectSymptomDiversity(s, ref)

	// Two qualifying signals, two alerts for the same village.
	require.Len(t, alerts, 2)
	for _, a := range alerts {
		assert.Equal(t, CodeSymptomDiversity, a.Rule)
		assert.Equal(t, domain.LevelMedium, a.Level)
		assert.Equal(t, "Riverside", a.Village)
		assert.Equal(t, "Single report has 3+ symptoms", a.Reason)
	}
}

func TestSymptomDiversityCountsDistinctSymptoms(t *testing.T) {
	// Duplicates collapse during parsing: only two distinct symptoms here.
	s := snap([]domain.Signal{
		sig("Riverside", domain.SeverityLow, time.Hour, "fever", "Fever", " fever ", "vomiting"),
	})

	assert.Empty(t, detectSymptomDiversity(s, ref))
}

func TestSymptomDiversityIgnoresWindow(t *testing.T) {
	// Not a windowed rule: an arbitrarily old signal still fires.
	s := snap([]domain.Signal{
		sig("Riverside", domain.SeverityLow, 200*time.Hour, "fever", "vomiting", "headache"),
	})

	assert.Len(t, detectSymptomDiversity(s, ref), 1)
}

func TestFeverLooseMotionFiresAtThree(t *testing.T) {
	s := snap(repeat(3, "Riverside", domain.SeverityMedium, time.Hour, time.Hour, "fever", "loose motion"))

	alerts := detectFeverLooseMotion(s, ref)

	require.Len(t, alerts, 1)
	assert.Equal(t, CodeFeverLooseMotion, alerts[0].Rule)
	assert.Equal(t, domain.LevelHigh, alerts[0].Level)
	assert.Equal(t, "Fever + loose motion cluster", alerts[0].Reason)
}

func TestFeverLooseMotionRequiresBothSymptoms(t *testing.T) {
	s := snap(
		repeat(2, "Riverside", domain.SeverityMedium, time.Hour, time.Hour, "fever", "loose motion"),
		[]domain.Signal{sig("Riverside", domain.SeverityMedium, 3*time.Hour, "fever")},
	)

	assert.Empty(t, detectFeverLooseMotion(s, ref))
}

func TestWeaknessDominantFiresAtFour(t *testing.T) {
	s := snap(repeat(4, "Riverside", domain.SeverityLow, time.Hour, time.Hour, "weakness"))

	alerts := detectWeaknessDominant(s, ref)

	require.Len(t, alerts, 1)
	assert.Equal(t, CodeWeaknessDominant, alerts[0].Rule)
	assert.Equal(t, domain.LevelMedium, alerts[0].Level)
	assert.Equal(t, "Weakness reported frequently", alerts[0].Reason)
}

func TestWeaknessDominantIgnoresOldReports(t *testing.T) {
	s := snap(
		repeat(3, "Riverside", domain.SeverityLow, time.Hour, time.Hour, "weakness"),
		[]domain.Signal{sig("Riverside", domain.SeverityLow, 30*time.Hour, "weakness")},
	)

	assert.Empty(t, detectWeaknessDominant(s, ref))
}
