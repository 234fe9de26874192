// Package flagx contains helpers for parsing a subset of os.Args so that
// independent loaders (JSON file, .env file, CLI flags) can each pick the
// flags they own without tripping over the others.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// FilterArgs returns the allowed flags (and their values) from args.
//
// Supported forms: "-c conf.json" and "--config=conf.json". A value is only
// consumed when the next argument does not look like a flag.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// stringFlag parses os.Args for a single string value registered under every
// name in names. Parse errors leave the value empty.
func stringFlag(usage string, names ...string) string {
	var value string

	allowed := make([]string, 0, len(names)*2)
	for _, n := range names {
		allowed = append(allowed, "-"+n, "--"+n)
	}
	args := FilterArgs(os.Args[1:], allowed)

	fs := flag.NewFlagSet(names[0], flag.ContinueOnError)
	for _, n := range names {
		fs.StringVar(&value, n, "", usage)
	}
	_ = fs.Parse(args)

	return value
}

// JsonConfigFlags returns the JSON config path given by -c or -config, or "".
func JsonConfigFlags() string {
	return stringFlag("Path to config file", "config", "c")
}

// EnvFileFlag returns the dotenv file path given by -env, or "".
func EnvFileFlag() string {
	return stringFlag("Path to .env file", "env")
}
