package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductIsRecurring(t *testing.T) {
	assert.False(t, (&Product{Interval: IntervalOneTime}).IsRecurring())
	assert.True(t, (&Product{Interval: IntervalMonth}).IsRecurring())
	assert.True(t, (&Product{Interval: IntervalYear}).IsRecurring())
	assert.False(t, (&Product{Interval: "weekly"}).IsRecurring())
}

func TestOrderIsRecurring(t *testing.T) {
	assert.False(t, (&Order{Interval: IntervalOneTime}).IsRecurring())
	assert.True(t, (&Order{Interval: IntervalMonth}).IsRecurring())
	assert.True(t, (&Order{Interval: IntervalYear}).IsRecurring())
}
