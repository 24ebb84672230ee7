package rules

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/skjsjhb/hyaci-launcher/pkg/errors"
)

var predicateTags = []string{"os", "features"}

// UnmarshalJSON decodes a manifest rule object such as
//
//	{"action": "allow", "os": {"name": "osx"}, "features": {"is_demo_user": true}}
//
// The os and features objects contribute "<tag>.<key>" predicates. Other
// tags are ignored. Non-string scalars are matched by their JSON text, so
// true becomes "true".
func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(errors.ErrInvalidRule, err.Error())
	}

	action := Disallow
	if a, ok := raw["action"]; ok {
		var s string
		if err := json.Unmarshal(a, &s); err != nil {
			return errors.Wrap(errors.ErrInvalidRule, "action must be a string")
		}
		action = Action(s == "allow")
	}

	predicates := make(map[string]string)
	for _, tag := range predicateTags {
		body, ok := raw[tag]
		if !ok {
			continue
		}
		var group map[string]json.RawMessage
		if err := json.Unmarshal(body, &group); err != nil {
			return errors.Wrapf(errors.ErrInvalidRule, "%s must be an object", tag)
		}
		for k, v := range group {
			predicates[tag+"."+k] = scalarText(v)
		}
	}

	built, err := New(action, predicates)
	if err != nil {
		return err
	}
	*r = built
	return nil
}

// MarshalJSON encodes the rule back into the nested manifest shape.
func (r Rule) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"action": r.Action.String()}
	for _, p := range r.predicates {
		tag, key, found := strings.Cut(p.key, ".")
		if !found {
			continue
		}
		group, _ := out[tag].(map[string]string)
		if group == nil {
			group = make(map[string]string)
			out[tag] = group
		}
		group[key] = p.raw
	}
	return json.Marshal(out)
}

func scalarText(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(v))
}
