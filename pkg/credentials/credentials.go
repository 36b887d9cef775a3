// Package credentials resolves Shopify API credentials from a profile file or
// a local .env file and validates that exactly one auth mode is usable.
package credentials

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Recognized keys in credential files and in the server environment.
const (
	KeyShopURL     = "SHOPIFY_SHOP_URL"
	KeyAccessToken = "SHOPIFY_ACCESS_TOKEN"
	KeyAPIKey      = "SHOPIFY_API_KEY"
	KeyPassword    = "SHOPIFY_PASSWORD"
	KeyAPIVersion  = "SHOPIFY_API_VERSION"

	DefaultAPIVersion = "2023-01"
)

// Keys lists every credential key. Only a resolved Set may supply them.
var Keys = []string{KeyShopURL, KeyAccessToken, KeyAPIKey, KeyPassword, KeyAPIVersion}

// IsKey reports whether k is one of Keys.
func IsKey(k string) bool {
	for _, ck := range Keys {
		if k == ck {
			return true
		}
	}
	return false
}

var (
	ErrNoSource            = errors.New("no credential source found")
	ErrInsecurePermissions = errors.New("credential profile permissions too open")
	ErrMissingShopURL      = errors.New(KeyShopURL + " is required")
	ErrMissingAuth         = errors.New("either " + KeyAccessToken + " or both " + KeyAPIKey + " and " + KeyPassword + " must be provided")
	ErrAmbiguousAuth       = errors.New("both " + KeyAccessToken + " and " + KeyAPIKey + "/" + KeyPassword + " are set; keep only one auth mode")
)

type AuthMode string

const (
	AuthNone        AuthMode = ""
	AuthAccessToken AuthMode = "access_token"
	AuthBasic       AuthMode = "api_key_password"
)

type SourceKind string

const (
	SourceProfile     SourceKind = "profile"
	SourceEnvFile     SourceKind = "env_file"
	SourceEnvironment SourceKind = "environment"
)

type Source struct {
	Kind SourceKind
	Path string
}

func (s Source) String() string {
	if s.Path == "" {
		return string(s.Kind)
	}
	return string(s.Kind) + " " + s.Path
}

// Set is the immutable credential bundle built once at startup.
type Set struct {
	ShopURL     string
	AccessToken string
	APIKey      string
	Password    string
	APIVersion  string
	Source      Source
}

// FromMap builds a Set from parsed KEY=value pairs. Unknown keys are ignored.
func FromMap(m map[string]string, src Source) Set {
	s := Set{
		ShopURL:     strings.TrimSpace(m[KeyShopURL]),
		AccessToken: strings.TrimSpace(m[KeyAccessToken]),
		APIKey:      strings.TrimSpace(m[KeyAPIKey]),
		Password:    strings.TrimSpace(m[KeyPassword]),
		APIVersion:  strings.TrimSpace(m[KeyAPIVersion]),
		Source:      src,
	}
	if s.APIVersion == "" {
		s.APIVersion = DefaultAPIVersion
	}
	return s
}

// FromEnv builds and validates a Set from an environment lookup such as
// os.LookupEnv. The server side uses it on the environment the launcher set.
func FromEnv(lookup func(string) (string, bool)) (Set, error) {
	m := map[string]string{}
	for _, k := range Keys {
		if v, ok := lookup(k); ok {
			m[k] = v
		}
	}
	s := FromMap(m, Source{Kind: SourceEnvironment})
	return s, s.Validate()
}

// Mode reports which auth mode is fully populated. When both are populated it
// returns AuthNone; Validate reports that case as ErrAmbiguousAuth.
func (s Set) Mode() AuthMode {
	token := s.AccessToken != ""
	basic := s.APIKey != "" && s.Password != ""
	switch {
	case token && !basic:
		return AuthAccessToken
	case basic && !token:
		return AuthBasic
	}
	return AuthNone
}

func (s Set) Validate() error {
	if s.ShopURL == "" {
		return ErrMissingShopURL
	}
	token := s.AccessToken != ""
	basic := s.APIKey != "" && s.Password != ""
	if token && basic {
		return ErrAmbiguousAuth
	}
	if !token && !basic {
		return ErrMissingAuth
	}
	return nil
}

// Values returns the populated keys, always including the API version.
func (s Set) Values() map[string]string {
	m := map[string]string{KeyShopURL: s.ShopURL}
	if s.AccessToken != "" {
		m[KeyAccessToken] = s.AccessToken
	}
	if s.APIKey != "" {
		m[KeyAPIKey] = s.APIKey
	}
	if s.Password != "" {
		m[KeyPassword] = s.Password
	}
	v := s.APIVersion
	if v == "" {
		v = DefaultAPIVersion
	}
	m[KeyAPIVersion] = v
	return m
}

// Environ renders Values as a sorted KEY=value slice for exec.Cmd.Env.
func (s Set) Environ() []string {
	vals := s.Values()
	out := make([]string, 0, len(vals))
	for k, v := range vals {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// Host strips any scheme and trailing slash from ShopURL.
func (s Set) Host() string {
	h := strings.TrimSpace(s.ShopURL)
	h = strings.TrimPrefix(h, "https://")
	h = strings.TrimPrefix(h, "http://")
	return strings.TrimRight(h, "/")
}

// Redacted is safe to log.
func (s Set) Redacted() string {
	return fmt.Sprintf("shop=%s mode=%s version=%s source=%s", s.Host(), s.Mode(), s.APIVersion, s.Source)
}
