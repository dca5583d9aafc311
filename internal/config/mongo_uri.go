package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	mongoScheme    = "mongodb://"
	mongoSRVScheme = "mongodb+srv://"
)

// mongoURI es lo que el loader necesita de DATABASE_URL. Se parsea a mano:
// net/url no acepta listas de hosts y el parser del driver resuelve SRV por DNS.
type mongoURI struct {
	scheme   string
	userinfo string
	hosts    []string
	database string
	rest     string
}

func parseMongoURI(raw string) (mongoURI, error) {
	var u mongoURI
	var body string
	switch {
	case strings.HasPrefix(raw, mongoSRVScheme):
		u.scheme, body = mongoSRVScheme, raw[len(mongoSRVScheme):]
	case strings.HasPrefix(raw, mongoScheme):
		u.scheme, body = mongoScheme, raw[len(mongoScheme):]
	default:
		scheme, _, _ := strings.Cut(raw, "://")
		return mongoURI{}, fmt.Errorf("scheme must be mongodb or mongodb+srv, got %q", scheme)
	}

	authority, path, hasPath := strings.Cut(body, "/")
	if !hasPath && strings.Contains(authority, "?") {
		return mongoURI{}, errors.New("options must be preceded by a slash")
	}
	if i := strings.LastIndexByte(authority, '@'); i >= 0 {
		u.userinfo, authority = authority[:i], authority[i+1:]
		if u.userinfo == "" {
			return mongoURI{}, errors.New("empty userinfo")
		}
	}
	if authority == "" {
		return mongoURI{}, errors.New("missing host")
	}

	for _, host := range strings.Split(authority, ",") {
		if host == "" {
			return mongoURI{}, fmt.Errorf("empty host in %q", authority)
		}
		if err := validateMongoHost(host); err != nil {
			return mongoURI{}, err
		}
		u.hosts = append(u.hosts, host)
	}
	if u.scheme == mongoSRVScheme {
		if len(u.hosts) != 1 {
			return mongoURI{}, errors.New("mongodb+srv URI must name exactly one host")
		}
		if _, port := splitHostPort(u.hosts[0]); port != "" {
			return mongoURI{}, errors.New("mongodb+srv URI cannot specify a port")
		}
	}

	if hasPath {
		db, _, _ := strings.Cut(path, "?")
		name, err := url.PathUnescape(db)
		if err != nil {
			return mongoURI{}, fmt.Errorf("database name: %w", err)
		}
		u.database = name
		u.rest = "/" + path
	}
	return u, nil
}

func validateMongoHost(host string) error {
	unescaped, err := url.PathUnescape(host)
	if err != nil {
		return fmt.Errorf("host %q: %w", host, err)
	}
	if strings.HasSuffix(unescaped, ".sock") {
		return nil
	}
	name, port := splitHostPort(host)
	if name == "" {
		return fmt.Errorf("host %q has no name", host)
	}
	if strings.HasPrefix(host, "[") && !strings.Contains(host, "]") {
		return fmt.Errorf("host %q has an unclosed IPv6 literal", host)
	}
	if port == "" {
		return nil
	}
	n, err := strconv.Atoi(port)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("host %q has an invalid port", host)
	}
	return nil
}

// splitHostPort separa host y puerto; acepta literales IPv6 entre corchetes.
func splitHostPort(host string) (string, string) {
	if strings.HasPrefix(host, "[") {
		end := strings.IndexByte(host, ']')
		if end < 0 {
			return host, ""
		}
		return host[:end+1], strings.TrimPrefix(host[end+1:], ":")
	}
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		return host[:i], host[i+1:]
	}
	return host, ""
}

// redacted devuelve la URI con la contraseña enmascarada.
func (u mongoURI) redacted() string {
	var b strings.Builder
	b.WriteString(u.scheme)
	if u.userinfo != "" {
		user, _, hasPassword := strings.Cut(u.userinfo, ":")
		b.WriteString(user)
		if hasPassword {
			b.WriteString(":xxxxx")
		}
		b.WriteByte('@')
	}
	b.WriteString(strings.Join(u.hosts, ","))
	b.WriteString(u.rest)
	return b.String()
}
