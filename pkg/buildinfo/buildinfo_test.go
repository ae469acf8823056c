package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserAgent(t *testing.T) {
	prevVersion, prevCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = prevVersion, prevCommit })

	Version, Commit = "v1.2.3", "abc123"
	assert.Equal(t, "SkyConnectExplorer-client/v1.2.3 (abc123)", UserAgent("client"))
}
