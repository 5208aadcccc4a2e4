package crawler

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/SpaceLeam/vapt-engine/internal/cache"
	"github.com/SpaceLeam/vapt-engine/internal/utils"
)

// PathSeeder probes a fixed or wordlist-driven set of common paths against
// the target, recording any that respond as live endpoints. Adapted from
// the teacher's PathBruteForcer: same worker-pool pattern, probing with GET
// requests only, generalized to write into the shared Cache instead of
// returning teacher Endpoint values.
type PathSeeder struct {
	BaseURL      string
	WordlistPath string
	Concurrency  int
	Cache        *cache.Cache
	logger       *utils.Logger
}

// NewPathSeeder builds a PathSeeder against baseURL. wordlistPath may be
// empty, in which case DefaultCommonPaths is used.
func NewPathSeeder(baseURL, wordlistPath string, c *cache.Cache, logger *utils.Logger) *PathSeeder {
	return &PathSeeder{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		WordlistPath: wordlistPath,
		Concurrency:  10,
		Cache:        c,
		logger:       logger,
	}
}

// DefaultCommonPaths is used when no wordlist file is configured.
var DefaultCommonPaths = []string{
	"/robots.txt", "/sitemap.xml", "/.well-known/security.txt",
	"/admin", "/login", "/api", "/api/v1", "/graphql",
	"/.git/config", "/.env", "/config.json", "/swagger.json", "/openapi.json",
	"/health", "/status", "/metrics", "/.well-known/openid-configuration",
}

// Seed probes every candidate path concurrently, bounded by Concurrency.
func (p *PathSeeder) Seed(ctx context.Context) {
	paths := p.loadPaths()

	jobs := make(chan string, len(paths))
	var wg sync.WaitGroup
	found := 0
	var foundMu sync.Mutex

	for i := 0; i < p.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client := utils.NewHTTPClient(10 * time.Second)
			for path := range jobs {
				if ctx.Err() != nil {
					return
				}
				url := fmt.Sprintf("%s%s", p.BaseURL, path)
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
				if err != nil {
					continue
				}
				resp, err := client.Do(req)
				if err != nil {
					continue
				}
				resp.Body.Close()
				if resp.StatusCode != http.StatusNotFound {
					p.Cache.AddLiveEndpoint(url, "common-path-seed")
					foundMu.Lock()
					found++
					foundMu.Unlock()
				}
			}
		}()
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	if p.logger != nil {
		p.logger.Success("common path seeding found %d endpoints", found)
	}
}

func (p *PathSeeder) loadPaths() []string {
	if p.WordlistPath == "" {
		return DefaultCommonPaths
	}
	file, err := os.Open(p.WordlistPath)
	if err != nil {
		return DefaultCommonPaths
	}
	defer file.Close()

	var paths []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			line = "/" + line
		}
		paths = append(paths, line)
	}
	if len(paths) == 0 {
		return DefaultCommonPaths
	}
	return paths
}
