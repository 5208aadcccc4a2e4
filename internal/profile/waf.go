package profile

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SpaceLeam/vapt-engine/internal/models"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

// wafSignaturePayloads are GET-only query-string markers that commonly
// trigger a WAF's signature rules without mutating any target state.
// Adapted from the teacher's DetectWAF test payload set.
var wafSignaturePayloads = []string{
	"../../etc/passwd",
	"<script>alert(1)</script>",
	"' OR 1=1--",
	"SELECT * FROM users",
}

// ProbeWAF sends a small number of signature-bearing GET requests at the
// target root and inspects response headers/status codes for a known WAF
// vendor fingerprint, writing the result into the Profile's detected_tech
// cell as "waf:<vendor>". It is a single native probe, not a subprocess
// tool: never gated by the Decision Ledger, runs immediately after the
// HTTPS probe for every web_target profile. Returns "" if nothing matched.
func ProbeWAF(ctx context.Context, p *models.Profile) string {
	if !p.WebTarget {
		return ""
	}
	client := utils.NewHTTPClient(10 * time.Second)
	base := models.TargetFor(p).URL

	for _, payload := range wafSignaturePayloads {
		target := base + "?probe=" + url.QueryEscape(payload)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			continue
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

		resp, err := client.Do(req)
		if err != nil {
			continue
		}
		vendor := vendorFromResponse(resp)
		resp.Body.Close()
		if vendor != "" {
			p.SetDetectedTech("waf:" + vendor)
			return vendor
		}
	}
	return ""
}

func vendorFromResponse(resp *http.Response) string {
	h := resp.Header
	server := strings.ToLower(h.Get("server"))

	switch {
	case h.Get("cf-ray") != "" || h.Get("__cfduid") != "" || server == "cloudflare":
		return "cloudflare"
	case h.Get("x-amzn-requestid") != "" || h.Get("x-amz-cf-id") != "":
		return "aws-waf"
	case strings.Contains(server, "akamaighost"):
		return "akamai"
	case h.Get("x-iinfo") != "" || strings.Contains(server, "imperva"):
		return "imperva"
	case resp.StatusCode == 403 || resp.StatusCode == 406 || resp.StatusCode == 429:
		return "unknown"
	default:
		return ""
	}
}
