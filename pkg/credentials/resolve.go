package credentials

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const (
	ProfileFileName = ".shopify_mcp_profile"
	EnvFileName     = ".env"

	// ProfileEnvVar overrides the profile location.
	ProfileEnvVar = "SHOPIFY_MCP_PROFILE"

	profilePerm fs.FileMode = 0o600
)

// DefaultProfilePath returns $SHOPIFY_MCP_PROFILE or ~/.shopify_mcp_profile.
func DefaultProfilePath() (string, error) {
	if p := os.Getenv(ProfileEnvVar); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, ProfileFileName), nil
}

// Resolver locates the credential source in priority order: the profile file,
// then the env file in the working directory.
type Resolver struct {
	ProfilePath string
	EnvFilePath string
	log         *zap.SugaredLogger
}

func NewResolver(log *zap.SugaredLogger) (*Resolver, error) {
	profile, err := DefaultProfilePath()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Resolver{ProfilePath: profile, EnvFilePath: EnvFileName, log: log}, nil
}

// Resolve loads and validates the first existing source. All failures are
// terminal; nothing is retried and the process environment is not read.
func (r *Resolver) Resolve() (Set, error) {
	log := r.log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if r.ProfilePath != "" {
		m, err := readSource(r.ProfilePath, true, log)
		switch {
		case err == nil:
			s := FromMap(m, Source{Kind: SourceProfile, Path: r.ProfilePath})
			if err := s.Validate(); err != nil {
				return s, fmt.Errorf("%s: %w", r.ProfilePath, err)
			}
			return s, nil
		case !errors.Is(err, fs.ErrNotExist):
			return Set{}, err
		}
	}
	if r.EnvFilePath != "" {
		m, err := readSource(r.EnvFilePath, false, log)
		switch {
		case err == nil:
			s := FromMap(m, Source{Kind: SourceEnvFile, Path: r.EnvFilePath})
			if err := s.Validate(); err != nil {
				return s, fmt.Errorf("%s: %w", r.EnvFilePath, err)
			}
			return s, nil
		case !errors.Is(err, fs.ErrNotExist):
			return Set{}, err
		}
	}
	return Set{}, fmt.Errorf("%w: create %s (run `shopify-mcp-launch setup`) or a %s file in the working directory",
		ErrNoSource, r.ProfilePath, EnvFileName)
}

// readSource opens path once, checks permissions through the open handle and
// parses from the same handle. strict rejects anything but 0600; otherwise
// group/other access only produces a warning.
func readSource(path string, strict bool, log *zap.SugaredLogger) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	// Windows has no meaningful unix permission bits.
	if runtime.GOOS != "windows" {
		perm := fi.Mode().Perm()
		if strict && perm != profilePerm {
			return nil, fmt.Errorf("%w: %s has mode %#o, expected 0600; fix with: chmod 600 %s",
				ErrInsecurePermissions, path, perm, path)
		}
		if !strict && perm&0o077 != 0 {
			log.Warnw("credential file readable by group/other; consider chmod 600", "path", path, "mode", fmt.Sprintf("%#o", perm))
		}
	}
	m, err := godotenv.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debugw("credential source loaded", "path", path, "keys", len(m))
	return m, nil
}
