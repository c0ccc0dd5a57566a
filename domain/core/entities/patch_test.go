package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{X: Float(0)}.IsEmpty())
}

func TestPatch_Apply(t *testing.T) {
	o := NewRectangle("u", 10, 20, 100, 50, "#ff0000")
	before := o.UpdatedAt

	Patch{
		X:    Float(42),
		Fill: String("#00ff00"),
	}.Apply(o)

	assert.Equal(t, 42.0, o.X)
	assert.Equal(t, 20.0, o.Y)
	assert.Equal(t, "#00ff00", o.Fill)
	assert.False(t, o.UpdatedAt.Before(before))

	t.Run("explicit timestamp wins", func(t *testing.T) {
		ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		Patch{Y: Float(7), UpdatedAt: &ts}.Apply(o)
		assert.Equal(t, ts, o.UpdatedAt)
	})

	t.Run("points are copied", func(t *testing.T) {
		line := NewLine("u", 0, 0, []float64{0, 0}, "#000", 1)
		pts := []float64{1, 2, 3, 4}
		Patch{Points: &pts}.Apply(line)
		pts[0] = 99
		assert.Equal(t, 1.0, line.Points[0])
	})

	t.Run("false and zero values are applied", func(t *testing.T) {
		o.Visible = true
		Patch{Visible: Bool(false), Opacity: Float(0)}.Apply(o)
		assert.False(t, o.Visible)
		assert.Equal(t, 0.0, o.Opacity)
	})
}

func TestPatch_Merge(t *testing.T) {
	first := Patch{X: Float(1), Fill: String("#111")}
	second := Patch{X: Float(2), Locked: Bool(true)}

	merged := first.Merge(second)

	// Later values win, untouched fields survive
	assert.Equal(t, 2.0, *merged.X)
	assert.Equal(t, "#111", *merged.Fill)
	assert.True(t, *merged.Locked)

	t.Run("originals are unchanged", func(t *testing.T) {
		assert.Equal(t, 1.0, *first.X)
		assert.Nil(t, first.Locked)
	})

	t.Run("merging empty changes nothing", func(t *testing.T) {
		out := first.Merge(Patch{})
		assert.Equal(t, 1.0, *out.X)
		assert.Equal(t, "#111", *out.Fill)
	})
}

func TestPatch_MergeThenApply_MatchesSequentialApply(t *testing.T) {
	a := NewRectangle("u", 0, 0, 10, 10, "#fff")
	b := a.Clone()

	p1 := Patch{X: Float(5), Width: Float(20)}
	p2 := Patch{X: Float(9), Fill: String("#abc")}
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	p1.UpdatedAt = &ts
	p2.UpdatedAt = &ts

	p1.Apply(a)
	p2.Apply(a)
	p1.Merge(p2).Apply(b)

	assert.True(t, a.Equals(b))
}
