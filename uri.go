package spider

import (
	"encoding/hex"
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// URI is a normalized, absolute URI. It is the unit of frontier membership
// and de-duplication: two URIs that normalize identically compare equal and
// map to the same key everywhere.
type URI struct {
	s string
}

// defaultPorts maps schemes to the port dropped during normalization.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

var percentEscape = regexp.MustCompile(`%[0-9a-fA-F]{2}`)

// ParseURI parses and normalizes an absolute URI.
// Returns EINVALID if the input is not an absolute URI with a host.
func ParseURI(raw string) (URI, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return URI{}, Errorf(EINVALID, "invalid URI %q: %v", raw, err)
	}
	return normalize(u, raw)
}

// MustParseURI is like ParseURI but panics on error.
// It is intended for tests and static initialization.
func MustParseURI(raw string) URI {
	u, err := ParseURI(raw)
	if err != nil {
		panic(err)
	}
	return u
}

// ResolveURI resolves ref against base and normalizes the result.
func ResolveURI(base URI, ref string) (URI, error) {
	r, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return URI{}, Errorf(EINVALID, "invalid reference %q: %v", ref, err)
	}
	return normalize(base.URL().ResolveReference(r), ref)
}

func normalize(u *url.URL, raw string) (URI, error) {
	if !u.IsAbs() || u.Host == "" {
		return URI{}, Errorf(EINVALID, "URI %q must be absolute", raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)

	host := strings.ToLower(u.Hostname())
	if ascii, err := idna.ToASCII(host); err == nil {
		host = ascii
	}
	port := u.Port()
	if port == defaultPorts[u.Scheme] {
		port = ""
	}
	switch {
	case port != "":
		u.Host = net.JoinHostPort(host, port)
	case strings.Contains(host, ":"):
		u.Host = "[" + host + "]"
	default:
		u.Host = host
	}

	// Dot segments are removed on the escaped form so reserved escapes
	// such as %2F keep their meaning.
	escaped := removeDotSegments(normalizeEscapes(u.EscapedPath()))
	decoded, err := url.PathUnescape(escaped)
	if err != nil {
		return URI{}, Errorf(EINVALID, "invalid path in %q: %v", raw, err)
	}
	u.Path, u.RawPath = decoded, escaped
	u.RawQuery = normalizeEscapes(u.RawQuery)

	return URI{s: u.String()}, nil
}

// normalizeEscapes decodes percent-escapes of unreserved characters and
// uppercases the hex digits of all others.
func normalizeEscapes(s string) string {
	return percentEscape.ReplaceAllStringFunc(s, func(esc string) string {
		b, err := hex.DecodeString(esc[1:])
		if err == nil && isUnreserved(b[0]) {
			return string(b)
		}
		return strings.ToUpper(esc)
	})
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return c == '-' || c == '.' || c == '_' || c == '~'
}

// removeDotSegments resolves "." and ".." path segments per RFC 3986 and
// turns an empty path into "/".
func removeDotSegments(p string) string {
	if p == "" {
		return "/"
	}
	in := strings.Split(p, "/")
	out := make([]string, 0, len(in))
	for i, seg := range in {
		last := i == len(in)-1
		switch seg {
		case ".":
			if last {
				out = append(out, "")
			}
		case "..":
			if len(out) > 1 {
				out = out[:len(out)-1]
			}
			if last {
				out = append(out, "")
			}
		default:
			out = append(out, seg)
		}
	}
	result := strings.Join(out, "/")
	if !strings.HasPrefix(result, "/") {
		result = "/" + result
	}
	return result
}

// String returns the normalized form.
func (u URI) String() string {
	return u.s
}

// IsZero reports whether u is the zero URI.
func (u URI) IsZero() bool {
	return u.s == ""
}

// URL returns a freshly parsed copy of the URI.
// The caller may modify the result.
func (u URI) URL() *url.URL {
	parsed, err := url.Parse(u.s)
	if err != nil {
		return &url.URL{}
	}
	return parsed
}

// Scheme returns the lowercase scheme.
func (u URI) Scheme() string {
	return u.URL().Scheme
}

// Host returns the host including a non-default port.
func (u URI) Host() string {
	return u.URL().Host
}

// Hostname returns the host without any port.
func (u URI) Hostname() string {
	return u.URL().Hostname()
}
