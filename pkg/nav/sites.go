package nav

import (
	"net"
	"net/url"
	"strings"
	"time"
)

// Site describes one wrapped reading website.
type Site struct {
	// ID identifies the site internally.
	ID string
	// Name is the display name.
	Name string
	// Domain is used for the network probe.
	Domain string
	// HomeURL is the site landing page.
	HomeURL string
	// ReaderPathPrefix marks reader pages within the site.
	ReaderPathPrefix string
}

// WeRead is the default wrapped site.
var WeRead = Site{
	ID:               "weread",
	Name:             "WeRead",
	Domain:           "weread.qq.com",
	HomeURL:          "https://weread.qq.com/",
	ReaderPathPrefix: "/web/reader/",
}

// DefaultSite is the site the shell wraps unless configured otherwise.
var DefaultSite = WeRead

// IsReaderURL reports whether raw points at a reader page of this site.
// It satisfies the Classifier contract.
func (s Site) IsReaderURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if !strings.EqualFold(u.Hostname(), s.Domain) {
		return false
	}
	return strings.HasPrefix(u.Path, s.ReaderPathPrefix)
}

// Reachable probes domain:443 with the given timeout. Startup uses it to
// decide between the live site and the offline page.
func (s Site) Reachable(timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(s.Domain, "443"), timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
