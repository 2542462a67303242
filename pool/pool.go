// Package pool hands out proxy URLs from a list in round-robin order.
package pool

import (
	"bufio"
	"net/url"
	"os"
	"strings"
	"sync"

	"github.com/regginator/omniwordlist/errors"
)

type Pool struct {
	proxies []*url.URL

	index int
	mu    sync.Mutex
}

// New reads a proxy list file, one URL per line. Blank lines, lines
// starting with '#' and lines that don't parse as a URL with a scheme
// are skipped.
func New(filePath string) (*Pool, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.WrapKindf(err, errors.ErrConfig, "opening proxy list %s", filePath)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.WrapKindf(err, errors.ErrConfig, "reading proxy list %s", filePath)
	}

	p := FromList(lines)
	if p.Len() == 0 {
		return nil, errors.WithHint(
			errors.Configf("proxy list %s has no usable entries", filePath),
			"entries look like socks5://127.0.0.1:1080",
		)
	}
	return p, nil
}

// FromList builds a pool from proxy URL strings, skipping invalid ones.
func FromList(lines []string) *Pool {
	p := &Pool{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		u, err := url.Parse(line)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		p.proxies = append(p.proxies, u)
	}
	return p
}

// Len returns the number of proxies.
func (p *Pool) Len() int {
	return len(p.proxies)
}

// Get returns the next proxy.
func (p *Pool) Get() (*url.URL, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return nil, errors.Configf("no proxies available in the pool")
	}

	u := p.proxies[p.index]
	p.index = (p.index + 1) % len(p.proxies)
	return u, nil
}
