// Package rules decides whether a library or launch argument applies to the
// current host.
package rules

import (
	"runtime"

	"github.com/Qwinci/hzlauncher/pkg/errors"
	"github.com/Qwinci/hzlauncher/pkg/types"
)

// Host describes the machine rules are evaluated against, in the names
// used by version documents ("windows", "linux", "osx"; "x86", "x86_64", ...).
type Host struct {
	OS   string
	Arch string
	// Unix selects the ':' classpath separator.
	Unix bool
}

// CurrentHost maps the Go runtime to document names.
func CurrentHost() Host {
	return Host{
		OS:   documentOS(runtime.GOOS),
		Arch: documentArch(runtime.GOARCH),
		Unix: runtime.GOOS != "windows" && runtime.GOOS != "plan9",
	}
}

func documentOS(goos string) string {
	if goos == "darwin" {
		return "osx"
	}

	return goos
}

func documentArch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	default:
		return goarch
	}
}

type Evaluator struct {
	Host Host
}

func NewEvaluator(host Host) *Evaluator {
	return &Evaluator{Host: host}
}

// Allowed evaluates every rule in order, starting from allow. A rule whose
// outcome disqualifies sets the result to false and nothing sets it back.
// An empty list always allows.
func (e *Evaluator) Allowed(rules []types.Rule) (bool, error) {
	allow := true
	for i, rule := range rules {
		if rule.OS == nil && rule.Features == nil {
			return false, errors.Newf(errors.ErrParse, "rule %d has neither os nor features", i)
		}
		matches := e.matches(rule)

		switch rule.Action {
		case types.Deny:
			if matches {
				allow = false
			}
		case types.Allow:
			if !matches {
				allow = false
			}
		default:
			return false, errors.Newf(errors.ErrParse, "rule %d has unknown action %q", i, rule.Action)
		}
	}

	return allow, nil
}

func (e *Evaluator) matches(rule types.Rule) bool {
	if rule.OS != nil {
		return e.matchesOS(rule.OS)
	}
	return matchesFeatures(rule.Features)
}

func (e *Evaluator) matchesOS(os *types.OSRule) bool {
	if os.Name != "" && os.Name != e.Host.OS {
		return false
	}

	if os.Arch == "" {
		return true
	}

	// 32-bit libraries run on a 64-bit x86 host.
	if os.Arch == "x86" && (e.Host.Arch == "x86" || e.Host.Arch == "x86_64") {
		return true
	}

	return os.Arch == e.Host.Arch
}

// No launcher feature is supported yet, so any required flag fails the
// predicate. An empty flag set is vacuously satisfied.
func matchesFeatures(features *types.FeatureRule) bool {
	return len(features.Flags) == 0
}
