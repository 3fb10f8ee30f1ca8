package config

import (
	"fmt"
	"net"
	neturl "net/url"
	"strconv"
	"strings"
)

// DSNValue builds a go-sql-driver/mysql DSN unless one is given verbatim.
func (c DatabaseConfig) DSNValue() string {
	if v := strings.TrimSpace(c.DSN); v != "" {
		return v
	}

	params := neturl.Values{}
	for key, value := range c.Params {
		k := strings.TrimSpace(key)
		v := strings.TrimSpace(value)
		if k != "" && v != "" {
			params.Set(k, v)
		}
	}
	if params.Get("charset") == "" {
		params.Set("charset", c.Charset)
	}
	if params.Get("parseTime") == "" {
		params.Set("parseTime", strconv.FormatBool(c.ParseTime))
	}
	if params.Get("loc") == "" {
		params.Set("loc", c.Loc)
	}

	auth := c.User
	if c.Password != "" {
		auth += ":" + c.Password
	}
	if auth != "" {
		auth += "@"
	}

	dsn := fmt.Sprintf("%stcp(%s)/%s", auth, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), c.Name)
	if query := params.Encode(); query != "" {
		dsn += "?" + query
	}
	return dsn
}

// URLValue builds a redis:// URL unless one is given verbatim.
func (c RedisConfig) URLValue() string {
	if u := normalizeRedisRawURL(c.URL); u != "" {
		return u
	}

	scheme := "redis"
	if c.TLS {
		scheme = "rediss"
	}
	u := &neturl.URL{
		Scheme: scheme,
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + strconv.Itoa(c.DB),
	}
	switch {
	case c.Username != "" && c.Password != "":
		u.User = neturl.UserPassword(c.Username, c.Password)
	case c.Username != "":
		u.User = neturl.User(c.Username)
	case c.Password != "":
		u.User = neturl.UserPassword("", c.Password)
	}
	return u.String()
}
