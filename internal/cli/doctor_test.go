package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctor(t *testing.T) {
	p := newProject(t, "last-hash: {{base}}\nlast-tag: v1.2.3\n")
	p.write(t, "package.json", `{"repository": "acme/widgets"}`)

	stdout, _, err := runCLI(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ Git repository: found")
	assert.Contains(t, stdout, "✓ Start commit: "+p.hashes[0][:7]+" on main")
	assert.Contains(t, stdout, "✓ Repository: acme/widgets (detected)")
}

func TestDoctor_Failing(t *testing.T) {
	newProject(t, "last-tag: v1.2.3\n")

	stdout, stderr, err := runCLI(t, "doctor", "--branch", "trunk")
	require.Error(t, err)
	assert.Equal(t, ExitMissingDependencies, ExitCode(err))
	assert.Contains(t, stdout, "✗ Start commit: no last-hash")
	assert.Contains(t, stdout, "✗ Repository")
	assert.Empty(t, stderr, "the report is the only output")
}
