package main

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudy_CompletesAndClearsProgress(t *testing.T) {
	h := newHarness(t)
	h.api.addCard(t, "hola", "hello", nil)
	h.api.addCard(t, "adiós", "goodbye", nil)
	h.login(t)

	// reveal, right; reveal, wrong
	out := h.mustRun(t, "\ny\n\nn\n", "study")
	assert.Contains(t, out, "Studying 2 cards")
	assert.Contains(t, out, "Session complete!")
	assert.Contains(t, out, "Correct:   1")
	assert.Contains(t, out, "Incorrect: 1")
	assert.False(t, hasSavedProgress(t, h))
}

func TestStudy_MultipleChoice(t *testing.T) {
	h := newHarness(t)
	math := h.api.addCategory(t, "Math", nil)
	h.api.addChoiceCard(t, "2+2", []string{"3", "4", "5"}, 1, math)
	h.api.addCard(t, "hola", "hello", nil)
	h.login(t)

	out := h.mustRun(t, "9\nx\n2\n", "study", "--category", "Math")
	assert.Contains(t, out, "Studying 1 card")
	assert.Contains(t, out, "Enter one of the option numbers.")
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "Accuracy:  100%")
}

func TestStudy_InterruptedRunResumes(t *testing.T) {
	h := newHarness(t)
	h.api.addCard(t, "hola", "hello", nil)
	h.api.addCard(t, "adiós", "goodbye", nil)
	h.login(t)

	// Input ends after the first card.
	out := h.mustRun(t, "\ny\n", "study")
	assert.Contains(t, out, "Progress saved.")
	assert.True(t, hasSavedProgress(t, h))

	out = h.mustRun(t, "\nn\n", "status")
	assert.Contains(t, out, "saved progress available")

	out = h.mustRun(t, "\nn\n", "study", "--resume")
	assert.Contains(t, out, "Resuming at card 2 of 2")
	assert.Contains(t, out, "Correct:   1")
	assert.Contains(t, out, "Incorrect: 1")
	assert.False(t, hasSavedProgress(t, h))
}

func TestStudy_PromptsBeforeResuming(t *testing.T) {
	h := newHarness(t)
	h.api.addCard(t, "hola", "hello", nil)
	h.api.addCard(t, "adiós", "goodbye", nil)
	h.login(t)

	h.mustRun(t, "\ny\n", "study")

	// Decline, then study the fresh deck fully.
	out := h.mustRun(t, "n\n\ny\n\ny\n", "study")
	assert.Contains(t, out, "You have an unfinished session (1 of 2 cards answered).")
	assert.Contains(t, out, "Studying 2 cards")
	assert.Contains(t, out, "Correct:   2")
}

func TestStudy_QuitDiscardsProgress(t *testing.T) {
	h := newHarness(t)
	h.api.addCard(t, "hola", "hello", nil)
	h.api.addCard(t, "adiós", "goodbye", nil)
	h.login(t)

	out := h.mustRun(t, "\ny\nq\n", "study")
	assert.Contains(t, out, "Session ended.")
	assert.Contains(t, out, "Skipped:   1")
	assert.False(t, hasSavedProgress(t, h))
}

func TestStudy_NoCards(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	_, err := h.run(t, "", "study")
	require.Error(t, err)
	assert.Equal(t, "no flashcards to study", err.Error())
}

func TestStudy_WorksOffline(t *testing.T) {
	h := newHarness(t)
	h.api.addCard(t, "hola", "hello", nil)
	h.login(t)
	h.mustRun(t, "", "cards")

	h.api.down.Store(true)
	out := h.mustRun(t, "\ny\n", "study")
	assert.Contains(t, out, "Showing offline copy")
	assert.Contains(t, out, "Session complete!")
}

func TestStudy_ReconnectRefreshesCards(t *testing.T) {
	h := newHarness(t)
	h.probeInterval = 50 * time.Millisecond
	h.api.addCard(t, "hola", "hello", nil)
	h.login(t)
	h.mustRun(t, "", "cards")

	h.api.down.Store(true)
	healthBefore := h.api.healthCalls.Load()
	syncBefore := h.api.syncCalls.Load()

	in, feed := io.Pipe()
	type result struct {
		out string
		err error
	}
	done := make(chan result, 1)
	go func() {
		out, err := h.runFrom(in, "study")
		done <- result{out, err}
	}()

	// One check while loading the deck, one when the background detector starts.
	require.Eventually(t, func() bool { return h.api.healthCalls.Load() >= healthBefore+2 },
		2*time.Second, 5*time.Millisecond)
	h.api.down.Store(false)
	require.Eventually(t, func() bool { return h.api.syncCalls.Load() > syncBefore },
		2*time.Second, 5*time.Millisecond)

	_, err := io.WriteString(feed, "\ny\n")
	require.NoError(t, err)
	require.NoError(t, feed.Close())

	var res result
	select {
	case res = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("study did not finish")
	}
	require.NoError(t, res.err, res.out)
	assert.Contains(t, res.out, "Showing offline copy")
	assert.Contains(t, res.out, reconnectNotice)
	assert.Contains(t, res.out, "Session complete!")
}

// hasSavedProgress reports whether study progress is saved.
func hasSavedProgress(t *testing.T, h *harness) bool {
	t.Helper()
	cl, err := h.factory(context.Background())
	require.NoError(t, err)
	return cl.progress.Exists(context.Background())
}
