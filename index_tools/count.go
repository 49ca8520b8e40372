package index_tools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// PrimaryIndexMarker is appended to a site: query to bias the search engine
// toward pages in its primary index.
const PrimaryIndexMarker = "/&"

// userAgent is sent with every count query; search hosts tend to reject the
// default Go client string.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// resultCountRe matches the result-count marker in a search results page,
// e.g. "About 1,230,000 results".
var resultCountRe = regexp.MustCompile(`([0-9][0-9.,\x{00a0}\x{202f}]*) results?`)

// noResultsMarker appears instead of a count when the index has no pages
// for the query.
const noResultsMarker = "did not match any documents"

// Counter estimates a domain's search-engine footprint by issuing
// site-restricted queries against a search host, optionally through a
// rotating proxy list.
type Counter struct {
	Host    string
	Proxies []string
	Client  *http.Client
}

// NewCounter returns a Counter for the given search host and proxy list.
func NewCounter(client *http.Client, host string, proxies []string) *Counter {
	return &Counter{Host: host, Proxies: proxies, Client: client}
}

// Count issues one site:<domain> query and returns the reported result
// count. With primaryOnly set the query is suffixed with the primary-index
// marker. There is no meaningful default for a failed count, so every
// failure is returned as an error.
func (c *Counter) Count(ctx context.Context, domain string, primaryOnly bool) (int, error) {
	query := "site:" + domain
	if primaryOnly {
		query += PrimaryIndexMarker
	}
	log.Printf("Counting indexed pages for domain: %s (query: %s)\n", domain, query)

	base := c.Host
	if !strings.Contains(base, "://") {
		base = "https://" + base
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("num", "10")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/search?"+params.Encode(), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)

	client, err := c.clientForQuery()
	if err != nil {
		return 0, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("index count query failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("index search host returned status %d", resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return 0, err
	}

	return parseResultCount(buf.String())
}

// clientForQuery returns the configured client, routed through a randomly
// picked proxy when a proxy list was supplied.
func (c *Counter) clientForQuery() (*http.Client, error) {
	if len(c.Proxies) == 0 {
		return c.Client, nil
	}

	proxy := c.Proxies[rand.IntN(len(c.Proxies))]
	if !strings.Contains(proxy, "://") {
		proxy = "http://" + proxy
	}
	proxyURL, err := url.Parse(proxy)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy %q: %w", proxy, err)
	}

	proxied := *c.Client
	proxied.Transport = &http.Transport{Proxy: http.ProxyURL(proxyURL)}
	return &proxied, nil
}

// parseResultCount extracts the numeric result count from a results page.
func parseResultCount(body string) (int, error) {
	if strings.Contains(body, noResultsMarker) {
		return 0, nil
	}

	match := resultCountRe.FindStringSubmatch(body)
	if len(match) < 2 {
		return 0, fmt.Errorf("no result count found in search response")
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, match[1])

	count, err := strconv.Atoi(digits)
	if err != nil {
		return 0, fmt.Errorf("unparseable result count %q: %w", match[1], err)
	}
	return count, nil
}
