package models

import "time"

// Credentials is the single optional credential set spec.md's Non-goals
// allow ("authenticated scanning beyond passing a single credential set" is
// excluded — passing one set is in-scope). Read-only once loaded.
type Credentials struct {
	Cookies map[string]string
	Headers map[string]string
}

// HeuristicWordlists externalizes the hand-maintained parameter-shape word
// lists spec.md §3/§9 flags as configuration rather than a compiled-in constant.
type HeuristicWordlists struct {
	CommandShaped []string `yaml:"command_shaped"`
	SSRFShaped    []string `yaml:"ssrf_shaped"`
}

// DefaultHeuristicWordlists returns the word lists named verbatim in spec.md §3.
func DefaultHeuristicWordlists() HeuristicWordlists {
	return HeuristicWordlists{
		CommandShaped: []string{"cmd", "exec", "shell", "ping", "host", "ip", "target", "path", "url"},
		SSRFShaped:    []string{"url", "uri", "redirect", "callback", "dest", "forward", "target"},
	}
}

// ScoringWeights externalizes the confidence-scoring weights fixed in
// spec.md §4.7.3, per spec.md §9's open question that implementations
// should expose them as configuration.
type ScoringWeights struct {
	ToolReliability        map[string]float64 `yaml:"tool_reliability"`
	CorroborationTwo       float64            `yaml:"corroboration_two"`
	CorroborationThreePlus float64            `yaml:"corroboration_three_plus"`
	PayloadConfirmed       float64            `yaml:"payload_confirmed"`
	PayloadPotential       float64            `yaml:"payload_potential"`
	PayloadConfigIssue     float64            `yaml:"payload_config_issue"`
	SourceCrawled          float64            `yaml:"source_crawled"`
	SourceForm             float64            `yaml:"source_form"`
	SourceURLParam         float64            `yaml:"source_url_param"`
	SourceHeuristic        float64            `yaml:"source_heuristic"`
}

// DefaultScoringWeights returns the weights fixed in spec.md §4.7.3.
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{
		ToolReliability: map[string]float64{
			"sqlmap":    0.95,
			"dalfox":    0.85,
			"nuclei":    0.85,
			"gobuster":  0.70,
			"xsstrike":  0.80,
			"xsser":     0.75,
			"commix":    0.85,
			"wpscan":    0.80,
			"nikto":     0.65,
			"dirsearch": 0.70,
			"whatweb":   0.60,
		},
		CorroborationTwo:       0.20,
		CorroborationThreePlus: 0.15,
		PayloadConfirmed:       1.0,
		PayloadPotential:       0.5,
		PayloadConfigIssue:     0.4,
		SourceCrawled:          0.9,
		SourceForm:             0.85,
		SourceURLParam:         0.75,
		SourceHeuristic:        0.5,
	}
}

// ScanConfig is the full set of knobs the CLI/config file can set.
type ScanConfig struct {
	Target         string
	OutputDir      string
	SkipInstall    bool
	RuntimeBudget  time.Duration
	Workers        int
	CheckToolsOnly bool

	ToolRegistrationFile string
	ConfigFile           string

	MaxDepth      int
	EnableJSCrawl bool
	BrowserType   string
	Headless      bool

	Weights   ScoringWeights
	Wordlists HeuristicWordlists
	Creds     *Credentials

	Verbose bool
}

// ScanMetadata identifies one scan run, per spec.md §6 report schema.
type ScanMetadata struct {
	ScanID        string    `json:"scan_id"`
	EngineVersion string    `json:"engine_version"`
	StartedAt     time.Time `json:"started_at"`
	EndedAt       time.Time `json:"ended_at"`
	WallSeconds   float64   `json:"wall_seconds"`
}

// FindingsSummary is the aggregate counts block in the final report.
type FindingsSummary struct {
	BySeverity    map[Severity]int `json:"by_severity"`
	ByCategory    map[Category]int `json:"by_category"`
	Corroborated  int              `json:"corroborated"`
	Confirmed     int              `json:"confirmed"`
	SingleTool    int              `json:"single_tool"`
	FalsePositive int              `json:"false_positive"`
}

// PayloadAttempts summarizes how many payload-class tool runs were attempted
// and how many produced a confirmed success marker.
type PayloadAttempts struct {
	Count        int `json:"count"`
	SuccessCount int `json:"success_count"`
}

// CacheSummary is the serializable snapshot of the Discovery Cache content,
// per spec.md §6's execution_report.json schema.
type CacheSummary struct {
	Ports              []int             `json:"ports"`
	Endpoints          []string          `json:"endpoints"`
	LiveEndpoints      []string          `json:"live_endpoints"`
	Params             []string          `json:"params"`
	CommandParams      []string          `json:"command_params"`
	SSRFParams         []string          `json:"ssrf_params"`
	Reflections        []string          `json:"reflections"`
	Subdomains         []string          `json:"subdomains"`
	VerifiedSubdomains []string          `json:"verified_subdomains"`
	TechHints          map[string]string `json:"tech_hints"`
}

// Report is the top-level document serialized to execution_report.json.
type Report struct {
	Profile          ProfileSnapshot            `json:"profile"`
	HTTPSCapability  bool                       `json:"https_capability"`
	Ledger           map[string]ToolDecision    `json:"ledger"`
	ExecutionRecords map[string]ExecutionRecord `json:"execution_records"`
	DiscoveryCache   CacheSummary               `json:"discovery_cache"`
	Findings         []Finding                  `json:"findings"`
	FindingsSummary  FindingsSummary            `json:"findings_summary"`
	PayloadAttempts  PayloadAttempts            `json:"payload_attempts"`
	ScanMetadata     ScanMetadata               `json:"scan_metadata"`
	Weights          ScoringWeights             `json:"weights"`
}

// ProfileSnapshot is the JSON-serializable view of a frozen Profile.
type ProfileSnapshot struct {
	OriginalInput string     `json:"original_input"`
	TargetType    TargetType `json:"target_type"`
	Scope         Scope      `json:"scope"`
	Host          string     `json:"host"`
	Scheme        string     `json:"scheme"`
	Port          int        `json:"port"`
	BaseDomain    string     `json:"base_domain,omitempty"`
	ResolvedIPs   []string   `json:"resolved_ips"`
	Reachable     bool       `json:"reachable"`
	HTTPSCapable  bool       `json:"https_capable"`
	WebTarget     bool       `json:"web_target"`
	DetectedCMS   string     `json:"detected_cms,omitempty"`
	DetectedTech  []string   `json:"detected_tech,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Snapshot takes an immutable, JSON-friendly copy of the Profile.
func (p *Profile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		OriginalInput: p.OriginalInput,
		TargetType:    p.TargetType,
		Scope:         p.Scope,
		Host:          p.Host,
		Scheme:        p.Scheme,
		Port:          p.Port,
		BaseDomain:    p.BaseDomain,
		ResolvedIPs:   append([]string(nil), p.ResolvedIPs...),
		Reachable:     p.Reachable,
		HTTPSCapable:  p.HTTPSCapable,
		WebTarget:     p.WebTarget,
		DetectedCMS:   p.DetectedCMS(),
		DetectedTech:  p.DetectedTech(),
		CreatedAt:     p.CreatedAt,
	}
}
