package types

import (
	"encoding/json"
	"fmt"
)

type Action string

const (
	Allow Action = "allow"
	Deny  Action = "deny"
)

// Rule gates a library or argument. Exactly one of OS and Features is set
// once the rule has been decoded.
type Rule struct {
	Action   Action
	OS       *OSRule
	Features *FeatureRule
}

type OSRule struct {
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
	Arch    string `json:"arch,omitempty"`
}

type FeatureRule struct {
	Flags map[string]bool
}

type rawRule struct {
	Action   string          `json:"action"`
	OS       *OSRule         `json:"os,omitempty"`
	Features map[string]bool `json:"features,omitempty"`
}

func (r *Rule) UnmarshalJSON(data []byte) error {
	var raw rawRule
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch raw.Action {
	case "allow":
		r.Action = Allow
	case "deny", "disallow":
		r.Action = Deny
	default:
		return fmt.Errorf("rule has unknown action %q", raw.Action)
	}

	switch {
	case raw.OS != nil:
		r.OS = raw.OS
	case raw.Features != nil:
		r.Features = &FeatureRule{Flags: raw.Features}
	default:
		return fmt.Errorf("rule has neither os nor features")
	}

	return nil
}

func (r Rule) MarshalJSON() ([]byte, error) {
	raw := rawRule{Action: string(r.Action), OS: r.OS}
	if r.Features != nil {
		raw.Features = r.Features.Flags
	}
	return json.Marshal(raw)
}
