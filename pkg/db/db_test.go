package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOpen_NotConfigured(t *testing.T) {
	dbh, err := Open("")
	assert.Nil(t, dbh)
	assert.Equal(t, ErrNotConfigured, err)
}
