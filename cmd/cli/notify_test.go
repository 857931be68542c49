package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvPairs(t *testing.T) {
	env, err := parseEnvPairs([]string{"BUILD_NUMBER=7", "EMPTY=", "URL=http://ci/job/x/?a=b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"BUILD_NUMBER": "7",
		"EMPTY":        "",
		"URL":          "http://ci/job/x/?a=b",
	}, env)

	for _, bad := range []string{"NOVALUE", "=value"} {
		_, err := parseEnvPairs([]string{bad})
		assert.Error(t, err, bad)
	}
}
