package launcher

import (
	"github.com/Qwinci/hzlauncher/pkg/rules"
	"github.com/Qwinci/hzlauncher/pkg/types"
)

// BuildArguments renders the JVM arguments, the main class and the game
// arguments, in that order. Arguments whose rules do not allow the host are
// left out.
func BuildArguments(eval *rules.Evaluator, tmpl *Templater, jvm []types.Argument, mainClass string, game []types.Argument) ([]string, error) {
	out, err := appendArguments(nil, eval, tmpl, jvm)
	if err != nil {
		return nil, err
	}

	out = append(out, mainClass)

	return appendArguments(out, eval, tmpl, game)
}

func appendArguments(out []string, eval *rules.Evaluator, tmpl *Templater, args []types.Argument) ([]string, error) {
	for _, arg := range args {
		allowed, err := eval.Allowed(arg.Rules)
		if err != nil {
			return nil, err
		}
		if !allowed {
			continue
		}

		for _, value := range arg.Values {
			out = append(out, tmpl.Render(value))
		}
	}
	return out, nil
}
