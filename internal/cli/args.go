package cli

import "strings"

// twoLetterFlags are the historical short flags pflag cannot express
var twoLetterFlags = map[string]string{
	"-lh": "--lhost",
	"-lp": "--lport",
}

// normalizeArgs rewrites -lh and -lp (also in their -lh=value form) to the
// long flags. Arguments after "--" are left alone.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			return append(out, args[i:]...)
		}
		name, value, hasValue := strings.Cut(arg, "=")
		if long, ok := twoLetterFlags[name]; ok {
			if hasValue {
				arg = long + "=" + value
			} else {
				arg = long
			}
		}
		out = append(out, arg)
	}
	return out
}
