package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpellaton/jobscout/internal/jobs"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"init", "scrape", "filter", "export", "status"})

	flag := root.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"unprocessed", "passed", "rejected", "ambiguous"} {
		status, err := parseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, jobs.FilterStatus(valid), status)
	}

	_, err := parseStatus("archived")
	require.Error(t, err)
}
