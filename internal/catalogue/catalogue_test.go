package catalogue

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestDefaultCatalogueHasEveryToolFamily(t *testing.T) {
	c := Default()
	for _, name := range []string{
		"dns-enum", "dns-minimal", "subfinder", "amass", "nmap-quick", "nmap-vuln",
		"whatweb", "testssl", "sslyze", "gobuster", "dirsearch", "wpscan", "nikto",
		"sqlmap", "commix", "dalfox", "xsstrike", "xsser", "ssrfmap", "nuclei",
	} {
		d, ok := c.Get(name)
		assert.True(t, ok, "catalogue must know about %s", name)
		assert.NotEmpty(t, d.CommandTemplate, "%s must have a command template", name)
	}
}

func TestLoadRegistrationFileOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.json")
	body := `{
		"nikto": {"command_template": ["nikto", "-h", "{url}", "-Tuning", "1"], "install_hint": "apt install nikto", "category": "webenum"},
		"custom-scanner": {"command_template": ["custom-scanner", "{url}"], "install_hint": "go install custom-scanner", "category": "custom"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	c := Default()
	require.NoError(t, c.LoadRegistrationFile(path))

	nikto, ok := c.Get("nikto")
	require.True(t, ok)
	assert.Equal(t, []string{"nikto", "-h", "{url}", "-Tuning", "1"}, nikto.CommandTemplate)
	assert.Equal(t, models.PhaseWebEnum, nikto.Phase, "registration must preserve the built-in phase")

	custom, ok := c.Get("custom-scanner")
	require.True(t, ok)
	assert.Equal(t, models.PhaseWebEnum, custom.Phase, "a wholly new tool defaults to WebEnum")
}

func TestLoadRegistrationFileMissingIsNotAnError(t *testing.T) {
	c := Default()
	assert.NoError(t, c.LoadRegistrationFile(""))
	assert.NoError(t, c.LoadRegistrationFile("/nonexistent/path/tools.json"))
}

func TestDefaultWeightsFillsGapsWithoutOverwriting(t *testing.T) {
	w := models.DefaultScoringWeights()
	w.ToolReliability["sqlmap"] = 0.95

	filled := DefaultWeights(w, []string{"sqlmap", "brand-new-tool"})
	assert.Equal(t, 0.95, filled.ToolReliability["sqlmap"], "an already-scored tool must not be overwritten")
	assert.Equal(t, 0.6, filled.ToolReliability["brand-new-tool"], "an unscored tool gets the neutral default")
}
