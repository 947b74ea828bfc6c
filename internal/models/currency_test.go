package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "RUB", NormalizeCurrency("RUR"))
	assert.Equal(t, "RUB", NormalizeCurrency("RUB"))
	assert.Equal(t, "USD", NormalizeCurrency("USD"))
	assert.Equal(t, "", NormalizeCurrency(""))
}
