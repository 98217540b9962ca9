package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.01, Round2(1.006))
	assert.Equal(t, 1.0, Round2(1.004))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, -2.35, Round2(-2.346))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "500.00", FormatAmount(500))
	assert.Equal(t, "0.00", FormatAmount(0))
	assert.Equal(t, "19.99", FormatAmount(19.99))
	assert.Equal(t, "139.93", FormatAmount(7*19.99))
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "USD 500.00", FormatCurrency(500, "USD"))
	assert.Equal(t, "EUR 0.00", FormatCurrency(0, "EUR"))
}
