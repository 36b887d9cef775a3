package launcher

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"shopifymcp/pkg/credentials"
)

// Setup implements the "setup" subcommand: it writes a profile file with
// owner-only permissions. The secret (the access token, or the password when
// --api-key is given) is read from in, never from the command line; on a
// terminal it is prompted for without echo.
func Setup(args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("setup", flag.ContinueOnError)
	fs.SetOutput(out)
	defaultProfile, _ := credentials.DefaultProfilePath()
	shop := fs.String("shop", "", "Shop domain, e.g. my-store.myshopify.com (required)")
	apiKey := fs.String("api-key", "", "Private app API key; the password is then read instead of a token")
	version := fs.String("api-version", credentials.DefaultAPIVersion, "Admin API version")
	profile := fs.String("profile", defaultProfile, "Profile file to write")
	force := fs.Bool("force", false, "Overwrite an existing profile")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if strings.TrimSpace(*profile) == "" {
		return errors.New("--profile is required (home directory could not be determined)")
	}
	if _, err := os.Stat(*profile); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", *profile)
	}

	vals := map[string]string{
		credentials.KeyShopURL:    *shop,
		credentials.KeyAPIKey:     *apiKey,
		credentials.KeyAPIVersion: *version,
	}
	if strings.TrimSpace(*apiKey) != "" {
		secret, err := readSecret(in, out, "Password")
		if err != nil {
			return err
		}
		vals[credentials.KeyPassword] = secret
	} else {
		secret, err := readSecret(in, out, "Access token")
		if err != nil {
			return err
		}
		vals[credentials.KeyAccessToken] = secret
	}

	set := credentials.FromMap(vals, credentials.Source{Kind: credentials.SourceProfile, Path: *profile})
	if err := credentials.Write(*profile, set); err != nil {
		return fmt.Errorf("write %s: %w", *profile, err)
	}
	_, _ = fmt.Fprintf(out, "wrote %s (mode 0600, %s auth)\n", *profile, set.Mode())
	return nil
}

// readSecret reads one line from in. A terminal gets a prompt and no echo.
func readSecret(in io.Reader, out io.Writer, label string) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		_, _ = fmt.Fprintf(out, "%s: ", label)
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
