// Package rules evaluates the allow/disallow rule lists attached to manifest
// libraries and arguments.
//
// A rule list is decided by the last rule whose predicates all match the
// context. Later rules override earlier ones. An empty list accepts.
package rules

import (
	"regexp"
	"sort"

	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

// Action is the decision a matching rule contributes.
type Action bool

const (
	Allow    Action = true
	Disallow Action = false
)

// String returns the manifest spelling of the action.
func (a Action) String() string {
	if a == Allow {
		return "allow"
	}
	return "disallow"
}

// Context carries the runtime properties rules are matched against, keyed by
// dotted names such as "os.name" or "features.is_demo_user".
type Context map[string]string

// With returns a copy of c with key set to value.
func (c Context) With(key, value string) Context {
	out := make(Context, len(c)+1)
	for k, v := range c {
		out[k] = v
	}
	out[key] = value
	return out
}

type predicate struct {
	key     string
	raw     string
	pattern *regexp.Regexp
}

// Rule is a conjunction of regex predicates plus an action.
// Patterns are compiled when the rule is built, so evaluation never fails.
type Rule struct {
	Action     Action
	predicates []predicate
}

// New builds a rule from dotted-key predicates. Each value is a regular
// expression that must match the whole context value.
func New(action Action, predicates map[string]string) (Rule, error) {
	r := Rule{Action: action}
	keys := make([]string, 0, len(predicates))
	for k := range predicates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p, err := regexp.Compile("^(?:" + predicates[k] + ")$")
		if err != nil {
			return Rule{}, errors.Wrapf(errors.ErrInvalidRule, "predicate %s=%q: %v", k, predicates[k], err)
		}
		r.predicates = append(r.predicates, predicate{key: k, raw: predicates[k], pattern: p})
	}
	return r, nil
}

// MustNew is like New but panics on an invalid pattern.
func MustNew(action Action, predicates map[string]string) Rule {
	r, err := New(action, predicates)
	if err != nil {
		panic(err)
	}
	return r
}

// Predicates returns the raw predicate patterns keyed by dotted name.
func (r Rule) Predicates() map[string]string {
	out := make(map[string]string, len(r.predicates))
	for _, p := range r.predicates {
		out[p.key] = p.raw
	}
	return out
}

// Matches reports whether every predicate of r matches ctx. A key missing
// from ctx makes the rule not match.
func (r Rule) Matches(ctx Context) bool {
	for _, p := range r.predicates {
		v, ok := ctx[p.key]
		if !ok || !p.pattern.MatchString(v) {
			return false
		}
	}
	return true
}

// Evaluate decides a rule list against ctx.
func Evaluate(rules []Rule, ctx Context) bool {
	if len(rules) == 0 {
		return true
	}
	for i := len(rules) - 1; i >= 0; i-- {
		if rules[i].Matches(ctx) {
			return bool(rules[i].Action)
		}
	}
	return false
}
