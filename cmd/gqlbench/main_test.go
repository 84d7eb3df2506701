package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReportsCompletedOperations(t *testing.T) {
	var buf bytes.Buffer
	err := Run(&buf, []string{"--concurrency", "4", "--iterations", "100"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "100 operations")
	assert.Contains(t, buf.String(), "ops/sec")
}

func TestRunRejectsNonPositiveIterations(t *testing.T) {
	var buf bytes.Buffer
	err := Run(&buf, []string{"--iterations", "0"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "iterations"))
}
