package env

import (
	"os"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// WarnFunc receives one call per placeholder that could not be resolved.
type WarnFunc func(format string, args ...any)

// Resolver substitutes placeholders. It is read-only after construction and
// safe for concurrent use.
type Resolver struct {
	variables map[string]string
	lookupEnv func(string) (string, bool)
	warn      WarnFunc
}

type ResolverOption func(*Resolver)

// WithWarnFunc reports unresolved placeholders.
func WithWarnFunc(fn WarnFunc) ResolverOption {
	return func(r *Resolver) {
		r.warn = fn
	}
}

// WithLookupEnv replaces os.LookupEnv for {{$NAME}} placeholders.
func WithLookupEnv(fn func(string) (string, bool)) ResolverOption {
	return func(r *Resolver) {
		r.lookupEnv = fn
	}
}

func NewResolver(vars map[string]string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		variables: make(map[string]string, len(vars)),
		lookupEnv: os.LookupEnv,
	}
	for k, v := range vars {
		r.variables[k] = v
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve replaces {{name}} with a variable and {{$NAME}} with an environment
// variable. Anything it cannot resolve is returned unchanged.
func (r *Resolver) Resolve(input string) string {
	if !strings.Contains(input, "{{") {
		return input
	}

	return variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		expr := strings.TrimSpace(match[2 : len(match)-2])

		if name, ok := strings.CutPrefix(expr, "$"); ok {
			if val, found := r.lookupEnv(name); found {
				return val
			}
			r.warnf("unresolved environment variable: $%s", name)
			return match
		}

		if val, ok := r.variables[expr]; ok {
			return val
		}

		r.warnf("unresolved variable: %s", expr)
		return match
	})
}

func (r *Resolver) warnf(format string, args ...any) {
	if r.warn != nil {
		r.warn(format, args...)
	}
}
