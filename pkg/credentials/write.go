package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Write stores s at path with owner-only permissions, replacing any existing
// content. The result is readable by Resolver as a profile source.
func Write(path string, s Set) error {
	if err := s.Validate(); err != nil {
		return err
	}
	content, err := encode(s.Values())
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, profilePerm)
	if err != nil {
		return err
	}
	// OpenFile keeps the mode of an existing file.
	if err := f.Chmod(profilePerm); err != nil {
		f.Close()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if _, err := f.WriteString(content + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// encode renders vals as sorted KEY="value" lines. godotenv.Marshal writes
// integer-looking values bare, losing leading zeros, so those are quoted here;
// digits and a sign need no escaping inside double quotes.
func encode(vals map[string]string) (string, error) {
	lines := make([]string, 0, len(vals))
	for k, v := range vals {
		if _, err := strconv.Atoi(v); err == nil {
			lines = append(lines, fmt.Sprintf(`%s="%s"`, k, v))
			continue
		}
		line, err := godotenv.Marshal(map[string]string{k: v})
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}
