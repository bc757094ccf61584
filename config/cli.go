package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
)

// CLI holds the gateway's parsed command-line options.
type CLI struct {
	Host      string
	Port      int
	ConfigDir string
	LogDir    string
	NoCORS    bool
}

// ParseCLI parses os.Args[1:] into a CLI, applying spec defaults relative to
// the process's current working directory. It prints usage and exits the
// process on --help or on an unrecognized flag, matching flag.Parse's own
// behavior for the latter.
func ParseCLI(args []string) *CLI {
	fs := flag.NewFlagSet("llmgateway", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	defaultConfigDir := filepath.Join(cwd, "data")

	c := &CLI{}
	var port int
	var host string
	var configDir string
	var logDir string
	var noCORS bool

	fs.IntVar(&port, "port", 3000, "Port to listen on")
	fs.IntVar(&port, "p", 3000, "Port to listen on (shorthand)")
	fs.StringVar(&host, "host", "127.0.0.1", "Host to bind to")
	fs.StringVar(&host, "h", "127.0.0.1", "Host to bind to (shorthand)")
	fs.StringVar(&configDir, "config-dir", defaultConfigDir, "Directory for providers/groups/keys/stats")
	fs.StringVar(&configDir, "c", defaultConfigDir, "Directory for providers/groups/keys/stats (shorthand)")
	fs.StringVar(&logDir, "log-dir", "", "Directory for request trace logs (default: <config-dir>/logs)")
	fs.StringVar(&logDir, "l", "", "Directory for request trace logs (shorthand)")
	fs.BoolVar(&noCORS, "no-cors", false, "Disable permissive CORS headers")

	if err := fs.Parse(args); err != nil {
		// flag already printed usage via fs.Usage on parse errors and on -help.
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	c.Host = host
	c.Port = port
	c.ConfigDir = configDir
	c.NoCORS = noCORS
	if logDir != "" {
		c.LogDir = logDir
	} else {
		c.LogDir = filepath.Join(c.ConfigDir, "logs")
	}

	return c
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintln(os.Stderr, "Usage: llmgateway [options]")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  -p, --port <port>          Port to listen on (default 3000)")
	fmt.Fprintln(os.Stderr, "  -h, --host <host>          Host to bind to (default 127.0.0.1)")
	fmt.Fprintln(os.Stderr, "  -c, --config-dir <dir>     Directory for providers/groups/keys/stats (default ./data)")
	fmt.Fprintln(os.Stderr, "  -l, --log-dir <dir>        Directory for request trace logs (default <config-dir>/logs)")
	fmt.Fprintln(os.Stderr, "      --no-cors              Disable permissive CORS headers")
	fmt.Fprintln(os.Stderr, "      --help                 Show this help message")
}
