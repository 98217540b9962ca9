package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatShortDate(t *testing.T) {
	d := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Jan 10, 2024", FormatShortDate(d))
}

func TestFormatLongDate(t *testing.T) {
	d := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "January 10, 2024", FormatLongDate(d))
}
