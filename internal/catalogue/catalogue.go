// Package catalogue is the registry of every external tool the engine knows
// how to invoke: its command template, declared capability prerequisites,
// timeout, priority, and phase. The Decision Ledger and Execution Planner
// are both built from this single source of truth, per spec.md §4.3/§4.4.
package catalogue

import (
	"encoding/json"
	"os"
	"time"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

// Descriptor is the static contract for one external tool: everything the
// ledger and planner need to know about it without running it.
type Descriptor struct {
	Name                 string              `json:"-"`
	Phase                models.Phase        `json:"-"`
	CommandTemplate      []string            `json:"command_template"`
	RequiredCapabilities []models.Capability `json:"-"`
	OptionalEnhancers    []models.Capability `json:"-"`
	Timeout              time.Duration       `json:"-"`
	Priority             int                 `json:"-"`
	Blocking             bool                `json:"-"`
	InstallHint          string              `json:"install_hint"`
	VerifyCommand        []string            `json:"verify_command"`
	Category             string              `json:"category"`
}

// registrationEntry mirrors the user-supplied tool-registration JSON schema
// from spec.md §6: {tool_name: {command_template, install_hint,
// verify_command, category}}.
type registrationEntry struct {
	CommandTemplate []string `json:"command_template"`
	InstallHint     string   `json:"install_hint"`
	VerifyCommand   []string `json:"verify_command"`
	Category        string   `json:"category"`
}

// Catalogue is the full set of tools available to one scan: the compiled-in
// defaults, optionally overridden/extended by a user registration file.
type Catalogue struct {
	tools map[string]Descriptor
}

// Default returns the catalogue's built-in tool set.
func Default() *Catalogue {
	c := &Catalogue{tools: map[string]Descriptor{}}
	for _, d := range defaultDescriptors() {
		c.tools[d.Name] = d
	}
	return c
}

// LoadRegistrationFile merges a user-supplied JSON registration file into
// the catalogue. User entries shadow built-ins of the same name, per
// spec.md §6. A missing file is not an error — registration is optional.
func (c *Catalogue) LoadRegistrationFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	var raw map[string]registrationEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for name, entry := range raw {
		existing, known := c.tools[name]
		d := Descriptor{
			Name:            name,
			CommandTemplate: entry.CommandTemplate,
			InstallHint:     entry.InstallHint,
			VerifyCommand:   entry.VerifyCommand,
			Category:        entry.Category,
		}
		if known {
			// Preserve phase/capabilities/timeout/priority from the
			// built-in unless the registration is for a wholly new tool.
			d.Phase = existing.Phase
			d.RequiredCapabilities = existing.RequiredCapabilities
			d.OptionalEnhancers = existing.OptionalEnhancers
			d.Timeout = existing.Timeout
			d.Priority = existing.Priority
			d.Blocking = existing.Blocking
		} else {
			d.Phase = models.PhaseWebEnum
			d.Timeout = 300 * time.Second
			d.Priority = 50
		}
		c.tools[name] = d
	}
	return nil
}

// Get returns a tool's descriptor.
func (c *Catalogue) Get(name string) (Descriptor, bool) {
	d, ok := c.tools[name]
	return d, ok
}

// All returns every registered descriptor.
func (c *Catalogue) All() []Descriptor {
	out := make([]Descriptor, 0, len(c.tools))
	for _, d := range c.tools {
		out = append(out, d)
	}
	return out
}

// Names returns every registered tool name.
func (c *Catalogue) Names() []string {
	out := make([]string, 0, len(c.tools))
	for n := range c.tools {
		out = append(out, n)
	}
	return out
}

const (
	secondsShort  = 20 * time.Second
	secondsMedium = 120 * time.Second
	secondsLong   = 900 * time.Second
)

// defaultDescriptors enumerates every tool family spec.md §4.3/§4.4/§6
// names. Command templates use {target}/{host}/{url} placeholders the
// runner substitutes at dispatch time.
func defaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:            "dns-enum",
			Phase:           models.PhaseDNS,
			CommandTemplate: []string{"dig", "{host}", "ANY", "+noall", "+answer"},
			Timeout:         secondsShort,
			Priority:        10,
			Category:        "dns",
		},
		{
			Name:            "dns-minimal",
			Phase:           models.PhaseDNS,
			CommandTemplate: []string{"dig", "{host}", "A", "+short"},
			Timeout:         secondsShort,
			Priority:        10,
			Category:        "dns",
		},
		{
			Name:            "subfinder",
			Phase:           models.PhaseSubdomains,
			CommandTemplate: []string{"subfinder", "-d", "{host}", "-silent"},
			Timeout:         secondsMedium,
			Priority:        20,
			Category:        "subdomain",
		},
		{
			Name:            "amass",
			Phase:           models.PhaseSubdomains,
			CommandTemplate: []string{"amass", "enum", "-passive", "-d", "{host}"},
			Timeout:         secondsLong,
			Priority:        25,
			Category:        "subdomain",
		},
		{
			Name:            "nmap-quick",
			Phase:           models.PhaseNetwork,
			CommandTemplate: []string{"nmap", "-T4", "-F", "{target}"},
			Timeout:         secondsMedium,
			Priority:        30,
			Category:        "portscan",
		},
		{
			Name:            "nmap-vuln",
			Phase:           models.PhaseNetwork,
			CommandTemplate: []string{"nmap", "--script", "vuln", "{target}"},
			Timeout:         secondsLong,
			Priority:        35,
			Blocking:        true,
			Category:        "portscan",
		},
		{
			Name:                 "whatweb",
			Phase:                models.PhaseWebDetect,
			CommandTemplate:      []string{"whatweb", "{url}"},
			RequiredCapabilities: []models.Capability{models.CapWebTarget},
			Timeout:              secondsShort,
			Priority:             40,
			Category:             "fingerprint",
		},
		{
			Name:                 "testssl",
			Phase:                models.PhaseTLS,
			CommandTemplate:      []string{"testssl.sh", "--fast", "{host}"},
			RequiredCapabilities: []models.Capability{models.CapHTTPS},
			Timeout:              secondsMedium,
			Priority:             50,
			Category:             "tls",
		},
		{
			Name:                 "sslyze",
			Phase:                models.PhaseTLS,
			CommandTemplate:      []string{"sslyze", "{host}"},
			RequiredCapabilities: []models.Capability{models.CapHTTPS},
			Timeout:              secondsMedium,
			Priority:             51,
			Category:             "tls",
		},
		{
			Name:                 "gobuster",
			Phase:                models.PhaseWebEnum,
			CommandTemplate:      []string{"gobuster", "dir", "-u", "{url}", "-w", "/usr/share/wordlists/dirb/common.txt", "-q"},
			RequiredCapabilities: []models.Capability{models.CapWebTarget},
			Timeout:              secondsLong,
			Priority:             60,
			Category:             "dirbrute",
		},
		{
			Name:                 "dirsearch",
			Phase:                models.PhaseWebEnum,
			CommandTemplate:      []string{"dirsearch", "-u", "{url}", "-q"},
			RequiredCapabilities: []models.Capability{models.CapWebTarget},
			Timeout:              secondsLong,
			Priority:             61,
			Category:             "dirbrute",
		},
		{
			Name:                 "wpscan",
			Phase:                models.PhaseWebEnum,
			CommandTemplate:      []string{"wpscan", "--url", "{url}", "--no-banner"},
			RequiredCapabilities: []models.Capability{models.CapWordpress},
			Timeout:              secondsLong,
			Priority:             65,
			Category:             "cms",
		},
		{
			Name:                 "nikto",
			Phase:                models.PhaseWebEnum,
			CommandTemplate:      []string{"nikto", "-h", "{url}"},
			RequiredCapabilities: []models.Capability{models.CapWebTarget},
			Timeout:              secondsLong,
			Priority:             66,
			Category:             "webenum",
		},
		{
			Name:                 "sqlmap",
			Phase:                models.PhaseExploitation,
			CommandTemplate:      []string{"sqlmap", "-u", "{url}", "--batch", "--level=1"},
			RequiredCapabilities: []models.Capability{models.CapParams},
			Timeout:              secondsLong,
			Priority:             70,
			Blocking:             true,
			Category:             "injection",
		},
		{
			Name:                 "commix",
			Phase:                models.PhaseExploitation,
			CommandTemplate:      []string{"commix", "--url={url}", "--batch"},
			RequiredCapabilities: []models.Capability{models.CapCommandParams},
			Timeout:              secondsLong,
			Priority:             71,
			Blocking:             true,
			Category:             "injection",
		},
		{
			Name:                 "dalfox",
			Phase:                models.PhaseExploitation,
			CommandTemplate:      []string{"dalfox", "url", "{url}"},
			RequiredCapabilities: []models.Capability{models.CapReflections},
			Timeout:              secondsMedium,
			Priority:             72,
			Category:             "reflection",
		},
		{
			Name:                 "xsstrike",
			Phase:                models.PhaseExploitation,
			CommandTemplate:      []string{"xsstrike", "-u", "{url}"},
			RequiredCapabilities: []models.Capability{models.CapReflections},
			Timeout:              secondsMedium,
			Priority:             73,
			Category:             "reflection",
		},
		{
			Name:                 "xsser",
			Phase:                models.PhaseExploitation,
			CommandTemplate:      []string{"xsser", "--url", "{url}"},
			RequiredCapabilities: []models.Capability{models.CapReflections},
			Timeout:              secondsMedium,
			Priority:             74,
			Category:             "reflection",
		},
		{
			Name:                 "ssrfmap",
			Phase:                models.PhaseExploitation,
			CommandTemplate:      []string{"ssrfmap", "-u", "{url}"},
			RequiredCapabilities: []models.Capability{models.CapSSRFParams},
			Timeout:              secondsMedium,
			Priority:             75,
			Category:             "ssrf",
		},
		{
			Name:                 "nuclei",
			Phase:                models.PhaseTemplates,
			CommandTemplate:      []string{"nuclei", "-u", "{url}", "-silent"},
			RequiredCapabilities: []models.Capability{models.CapWebTarget},
			OptionalEnhancers:    []models.Capability{models.CapLiveEndpoints},
			Timeout:              secondsLong,
			Priority:             80,
			Category:             "template",
		},
	}
}

// DefaultWeights builds per-tool reliability entries for any catalogue tool
// the default ScoringWeights map doesn't already name, defaulting to a
// neutral mid weight — used by config loading to fill gaps.
func DefaultWeights(weights models.ScoringWeights, names []string) models.ScoringWeights {
	if weights.ToolReliability == nil {
		weights.ToolReliability = map[string]float64{}
	}
	for _, n := range names {
		if _, ok := weights.ToolReliability[n]; !ok {
			weights.ToolReliability[n] = 0.6
		}
	}
	return weights
}
