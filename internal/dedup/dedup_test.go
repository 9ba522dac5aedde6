package dedup_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellaton/jobscout/internal/dedup"
)

func TestFingerprintDeterministic(t *testing.T) {
	t.Parallel()

	a := dedup.Fingerprint("Process Engineer", "Nestlé", "Join our Lausanne plant team.")
	b := dedup.Fingerprint("Process Engineer", "Nestlé", "Join our Lausanne plant team.")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintIgnoresFormattingNoise(t *testing.T) {
	t.Parallel()

	base := dedup.Fingerprint("Process Engineer", "Nestlé", "Join our team.")
	cased := dedup.Fingerprint("PROCESS ENGINEER", "nestlé", "JOIN OUR TEAM.")
	punct := dedup.Fingerprint("Process, Engineer!", "Nestlé.", "Join -- our team...")
	spaced := dedup.Fingerprint("  Process   Engineer ", "Nestlé", "Join\n\tour  team.")

	assert.Equal(t, base, cased)
	assert.Equal(t, base, punct)
	assert.Equal(t, base, spaced)
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	t.Parallel()

	a := dedup.Fingerprint("Process Engineer", "Nestlé", "desc")
	b := dedup.Fingerprint("Automation Engineer", "Nestlé", "desc")
	c := dedup.Fingerprint("Process Engineer", "Givaudan", "desc")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestFingerprintUsesDescriptionPrefixOnly(t *testing.T) {
	t.Parallel()

	prefix := strings.Repeat("a", 500)
	a := dedup.Fingerprint("t", "c", prefix+" first tail")
	b := dedup.Fingerprint("t", "c", prefix+" second tail")
	assert.Equal(t, a, b, "text past the prefix must not change the fingerprint")

	short := dedup.Fingerprint("t", "c", "different body")
	assert.NotEqual(t, a, short)
}

func TestTrackerAdmitIfNew(t *testing.T) {
	t.Parallel()

	tracker := dedup.NewTracker(map[string]bool{"seeded": true})

	assert.False(t, tracker.AdmitIfNew("seeded"), "seeded fingerprints are duplicates")
	assert.True(t, tracker.AdmitIfNew("fresh"))
	assert.False(t, tracker.AdmitIfNew("fresh"), "second admit of the same fingerprint")
	assert.False(t, tracker.AdmitIfNew(""), "empty fingerprint is never admitted")
	assert.True(t, tracker.Contains("fresh"))
	assert.False(t, tracker.Contains("unseen"))
}

func TestTrackerConcurrentAdmitIsExclusive(t *testing.T) {
	t.Parallel()

	tracker := dedup.NewTracker(nil)

	const workers = 32
	admitted := make(chan bool, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted <- tracker.AdmitIfNew("contested")
		}()
	}
	wg.Wait()
	close(admitted)

	wins := 0
	for ok := range admitted {
		if ok {
			wins++
		}
	}
	require.Equal(t, 1, wins, "exactly one goroutine may admit a fingerprint")
}
