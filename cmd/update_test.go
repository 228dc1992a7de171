package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpdateRequiresReleaseVersion(t *testing.T) {
	orig := version
	version = "dev"
	t.Cleanup(func() { version = orig })

	err := runUpdate(updateCmd, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a release build")
}
