package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/enstruman/enstruman/pkg/labels"
)

func multiFrameProfile() Profile {
	p := CustomProfile()
	p.FrameLength = 4
	return p
}

func TestDecide_ConfidenceAndMargin(t *testing.T) {
	table := labels.Table{"Gitar", "Davul", "Keman"}

	t.Run("accepts clear winner", func(t *testing.T) {
		// best=0.5 >= 0.35, margin=0.2 >= 0.10
		got := Decide([]float64{0.5, 0.3, 0.1}, table, multiFrameProfile())
		assert.Equal(t, []string{"Gitar", "Davul", "Keman"}, got)
	})

	t.Run("rejects thin margin", func(t *testing.T) {
		// best=0.4 >= 0.35 but margin=0.05 < 0.10
		got := Decide([]float64{0.4, 0.35, 0.1}, table, multiFrameProfile())
		assert.Empty(t, got)
	})

	t.Run("rejects low best score", func(t *testing.T) {
		got := Decide([]float64{0.3, 0.1, 0.05}, table, multiFrameProfile())
		assert.Empty(t, got)
	})

	t.Run("single class has zero margin", func(t *testing.T) {
		got := Decide([]float64{0.9}, labels.Table{"Gitar"}, multiFrameProfile())
		assert.Empty(t, got)
	})
}

func TestDecide_WholeClipFloor(t *testing.T) {
	p := WholeClipProfile()
	table := labels.Table{"Arp", "Davul", "Keman", "Gitar"}

	// Ranked: Arp(0.6), Gitar(0.02), Davul(0.005), Keman(0.001); the floor
	// cuts the list at the first score <= 0.01, no margin check applies.
	got := Decide([]float64{0.6, 0.005, 0.001, 0.02}, table, p)
	assert.Equal(t, []string{"Arp", "Gitar"}, got)
}

func TestDecide_WholeClipTopK(t *testing.T) {
	p := WholeClipProfile()
	table := labels.Table{"A", "B", "C", "D", "E"}

	got := Decide([]float64{0.5, 0.4, 0.3, 0.2, 0.1}, table, p)
	assert.Equal(t, []string{"A", "B", "C"}, got, "whole-clip verdict is capped at 3")
}

func TestDecide_StableTieOrder(t *testing.T) {
	p := WholeClipProfile()
	table := labels.Table{"A", "B", "C"}

	// Equal scores keep original index order.
	got := Decide([]float64{0.4, 0.4, 0.4}, table, p)
	assert.Equal(t, []string{"A", "B", "C"}, got)
}

func TestDecide_WhitelistSkipsWithoutConsumingSlot(t *testing.T) {
	p := GeneralProfile()
	p.TopK = 2
	table := labels.Table{"Speech", "Acoustic guitar", "Violin, fiddle"}

	// Speech ranks first but is not an instrument; both remaining
	// instrument classes still fit in the 2 slots.
	got := Decide([]float64{0.5, 0.3, 0.1}, table, p)
	assert.Equal(t, []string{"Akustik gitar", "Keman"}, got)
}

func TestDecide_IndexBeyondTableSkipped(t *testing.T) {
	p := multiFrameProfile()
	// Score vector longer than the table: class 0 wins but has no label.
	got := Decide([]float64{0.6, 0.2, 0.1}, labels.Table{}, p)
	assert.Empty(t, got)

	got = Decide([]float64{0.2, 0.6, 0.1, 0.05}, labels.Table{"Gitar", "Davul"}, p)
	assert.Equal(t, []string{"Davul", "Gitar"}, got)
}

func TestDecide_DeduplicatesLabels(t *testing.T) {
	p := multiFrameProfile()
	table := labels.Table{"Gitar", "Gitar", "Davul"}

	got := Decide([]float64{0.5, 0.3, 0.1}, table, p)
	assert.Equal(t, []string{"Gitar", "Davul"}, got)
}

func TestDecide_EmptyScores(t *testing.T) {
	assert.Empty(t, Decide(nil, labels.Table{"Gitar"}, multiFrameProfile()))
}
