package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeHasEveryComponent(t *testing.T) {
	root := newRootCmd()
	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)

	var names []string
	for _, c := range serve.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"tools", "data", "support", "router", "gateway", "all"}, names)
}

func TestAskNeedsQuery(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"ask"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "give a query")
}

func TestScenariosCoverDemoQueries(t *testing.T) {
	require.Len(t, scenarios, 5)
	assert.Equal(t, "Get customer information for ID 5", scenarios[3].query)
}
