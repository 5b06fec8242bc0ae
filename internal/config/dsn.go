package config

import (
	"fmt"
	neturl "net/url"
	"strings"
)

// DSNValue returns the MySQL DSN, preferring an explicit top-level DSN over
// the structured database block.
func (c *AppConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}
	return c.Database.dsn()
}

func (d DatabaseConfig) dsn() string {
	host := strings.TrimSpace(d.Host)
	if host == "" {
		host = defaultDBHost
	}
	port := d.Port
	if port == 0 {
		port = defaultDBPort
	}
	charset := strings.TrimSpace(d.Charset)
	if charset == "" {
		charset = defaultDBCharset
	}

	params := neturl.Values{}
	params.Set("charset", charset)
	params.Set("parseTime", "true")
	params.Set("loc", "Local")

	auth := strings.TrimSpace(d.User)
	if pass := strings.TrimSpace(d.Password); pass != "" {
		auth += ":" + pass
	}

	return fmt.Sprintf("%s@tcp(%s:%d)/%s?%s", auth, host, port, strings.TrimSpace(d.Name), params.Encode())
}
