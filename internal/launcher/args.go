package launcher

import (
	"fmt"
	"strconv"
	"strings"
)

// Options is the parsed launch command line. Port is zero when no REST
// mirror was requested; Passthrough is handed to the server unchanged.
type Options struct {
	Port        int
	Passthrough []string
}

// ParseArgs extracts --port/-p (separate or "=" form). Everything else,
// including unknown flags, is passed through in order.
func ParseArgs(args []string) (Options, error) {
	var opts Options
	for i := 0; i < len(args); i++ {
		a := args[i]
		var raw string
		switch {
		case a == "--port" || a == "-p":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("%s requires a value", a)
			}
			i++
			raw = args[i]
		case strings.HasPrefix(a, "--port="):
			raw = strings.TrimPrefix(a, "--port=")
		case strings.HasPrefix(a, "-p="):
			raw = strings.TrimPrefix(a, "-p=")
		default:
			opts.Passthrough = append(opts.Passthrough, a)
			continue
		}
		port, err := strconv.Atoi(raw)
		if err != nil || port < 1 || port > 65535 {
			return opts, fmt.Errorf("invalid port number: %s", raw)
		}
		opts.Port = port
	}
	return opts, nil
}

// ServerArgs is the argument list for the spawned server.
func (o Options) ServerArgs() []string {
	out := make([]string, 0, len(o.Passthrough)+2)
	if o.Port > 0 {
		out = append(out, "--port", strconv.Itoa(o.Port))
	}
	return append(out, o.Passthrough...)
}
