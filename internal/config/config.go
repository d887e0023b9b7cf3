// Package config parses the spell server's command-line configuration and
// carries its defaults. Flags are parsed pairwise ("-flag value") rather
// than with the stdlib flag package or a third-party CLI library: the
// contract requires that any unrecognized token or a flag with no following
// value be a hard configuration error with a specific usage block, which
// neither flag nor pflag/cobra express without working against their own
// parsing loops.
package config

import (
	"fmt"
	"strconv"
)

// Defaults, matching the original implementation exactly.
const (
	DefaultPort           = 2667
	DefaultDictionaryPath = "words"
	DefaultWorkers        = 4
)

// Usage is the block printed on a configuration error, matching the
// original program's option descriptions.
const Usage = `Invalid configuration. Please see below for valid options.
	-t <number> : The number of worker threads to spawn. This also serves as an
		upper bound on the number of simultaneously connected clients.
		The default number of threads is 4.
	-d <file>   : Dictionary file to use. Words should be listed one per line.
		The default dictionary is the included file "words".
	-p <number> : TCP port to listen for incoming connections on. Default is
		port 2667.`

// Config is the validated, immutable configuration for one server run.
type Config struct {
	Port           int
	DictionaryPath string
	Workers        int
}

// Error indicates a bad command line; the caller should print Usage and
// exit nonzero.
type Error struct {
	msg string
}

func (e *Error) Error() string { return e.msg }

func configErrorf(format string, args ...any) error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// Parse parses args (excluding the program name) into a Config, applying
// defaults for anything unspecified. It returns a *Error if args contains a
// flag with no following value or any token that is not one of -p, -t, -d.
func Parse(args []string) (*Config, error) {
	cfg := &Config{
		Port:           DefaultPort,
		DictionaryPath: DefaultDictionaryPath,
		Workers:        DefaultWorkers,
	}

	for i := 0; i < len(args); i += 2 {
		flag := args[i]
		if i+1 >= len(args) {
			return nil, configErrorf("missing value for flag %q", flag)
		}
		value := args[i+1]

		switch flag {
		case "-d":
			cfg.DictionaryPath = value
		case "-t":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				cfg.Workers = DefaultWorkers
			} else {
				cfg.Workers = n
			}
		case "-p":
			p, err := strconv.Atoi(value)
			if err != nil || p < 1 || p > 65535 {
				cfg.Port = DefaultPort
			} else {
				cfg.Port = p
			}
		default:
			return nil, configErrorf("unrecognized flag %q", flag)
		}
	}

	return cfg, nil
}
