package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// normalizeArgs rewrites the classic single-dash long options
// (-print_num_chars, -print_everything, ...) into the double-dash form pflag
// expects. Arguments that name no known flag, and a trailing flag that is
// missing its value, are dropped and returned as warnings instead of
// failing the run. The value following a flag that takes one is passed
// through untouched, even if it starts with a dash.
func normalizeArgs(args []string, flags *pflag.FlagSet) (normalized, warnings []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			normalized = append(normalized, args[i:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			normalized = append(normalized, arg)
			continue
		}

		doubleDash := strings.HasPrefix(arg, "--")
		name, _, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")

		var flag *pflag.Flag
		switch {
		case !doubleDash && len(name) == 1:
			flag = flags.ShorthandLookup(name)
		default:
			flag = flags.Lookup(name)
		}
		if flag == nil {
			warnings = append(warnings, fmt.Sprintf("Argument '%s' Is not a recognized argument!", arg))
			continue
		}
		takesValue := flag.NoOptDefVal == "" && !hasValue
		if takesValue && i+1 >= len(args) {
			warnings = append(warnings, fmt.Sprintf("Argument '%s' Is missing its value and was ignored!", arg))
			continue
		}

		if !doubleDash && len(name) > 1 {
			arg = "-" + arg
		}
		normalized = append(normalized, arg)

		if takesValue {
			i++
			normalized = append(normalized, args[i])
		}
	}
	return normalized, warnings
}
