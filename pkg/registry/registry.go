// Package registry holds the ordered action registry.
//
// The registry is built once from the parsed configuration and is immutable
// afterwards. Selection walks actions in declaration order because earlier
// actions (formatters) rewrite files that later actions (checkers) read.
package registry

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/precheck/pkg/config"
	"github.com/arthur-debert/precheck/pkg/errors"
	"github.com/arthur-debert/precheck/pkg/logging"
	"github.com/arthur-debert/precheck/pkg/template"
)

// Action is one validated (tool invocation, file selection) pair
type Action struct {
	Name      string
	Run       *template.Template
	Include   string
	Enabled   bool
	Mutating  bool
	PassFiles bool
}

// RenderCommand substitutes the matched files into the action's command
// template. Actions with pass_files disabled run the command as declared.
func (a Action) RenderCommand(files []string) (string, error) {
	if !a.PassFiles {
		return a.Run.Raw(), nil
	}
	cmd, err := a.Run.Render(files)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrTemplateRender, "action %q", a.Name).
			WithDetail("action", a.Name)
	}
	return cmd, nil
}

// Selection pairs an action with the changed files it matched
type Selection struct {
	Action Action
	Files  []string
}

// Registry is an ordered, immutable sequence of actions
type Registry struct {
	actions []Action
	byName  map[string]int
	logger  zerolog.Logger
}

// New validates the given action specs and builds a registry. Validation
// covers everything that can fail before a single tool runs: missing run or
// include fields, duplicate names, malformed templates, and invalid globs.
func New(specs []config.ActionSpec) (*Registry, error) {
	logger := logging.GetLogger("registry")

	r := &Registry{
		actions: make([]Action, 0, len(specs)),
		byName:  make(map[string]int, len(specs)),
		logger:  logger,
	}

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, errors.New(errors.ErrConfigValid, "action name cannot be empty")
		}
		if _, exists := r.byName[spec.Name]; exists {
			return nil, errors.Newf(errors.ErrConfigValid, "duplicate action name %q", spec.Name)
		}
		if strings.TrimSpace(spec.Run) == "" {
			return nil, errors.Newf(errors.ErrConfigValid,
				"action %q is missing the required run field", spec.Name)
		}
		if spec.Include == "" {
			return nil, errors.Newf(errors.ErrConfigValid,
				"action %q is missing the required include field", spec.Name)
		}

		// filepath.Match only reports a malformed pattern when called, so
		// probe it here to surface glob errors at load time
		if _, err := filepath.Match(spec.Include, "probe"); err != nil {
			return nil, errors.Wrapf(err, errors.ErrGlobInvalid,
				"action %q has an invalid include pattern %q", spec.Name, spec.Include)
		}

		tmpl, err := template.Parse(spec.Run)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigValid, "action %q", spec.Name)
		}
		if !spec.FilesPassed() && tmpl.HasFilesToken() {
			return nil, errors.Newf(errors.ErrConfigValid,
				"action %q sets pass_files: false but its template contains {files}", spec.Name)
		}

		r.byName[spec.Name] = len(r.actions)
		r.actions = append(r.actions, Action{
			Name:      spec.Name,
			Run:       tmpl,
			Include:   spec.Include,
			Enabled:   spec.IsEnabled(),
			Mutating:  spec.Mutating,
			PassFiles: spec.FilesPassed(),
		})
	}

	logger.Debug().Int("actions", len(r.actions)).Msg("Registry built")
	return r, nil
}

// Actions returns the actions in declaration order
func (r *Registry) Actions() []Action {
	out := make([]Action, len(r.actions))
	copy(out, r.actions)
	return out
}

// Get returns the named action
func (r *Registry) Get(name string) (Action, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Action{}, false
	}
	return r.actions[idx], true
}

// Len returns the number of registered actions
func (r *Registry) Len() int {
	return len(r.actions)
}

// Select filters the changed files through each enabled action's include
// pattern, in declaration order. Actions with zero matches are skipped and
// produce no selection at all.
func (r *Registry) Select(changed []string) []Selection {
	var selections []Selection

	for _, action := range r.actions {
		if !action.Enabled {
			r.logger.Debug().Str("action", action.Name).Msg("Action disabled, skipping")
			continue
		}

		var matched []string
		for _, path := range changed {
			if MatchInclude(action.Include, path) {
				matched = append(matched, path)
			}
		}
		if len(matched) == 0 {
			r.logger.Debug().
				Str("action", action.Name).
				Str("include", action.Include).
				Msg("No files matched, skipping action")
			continue
		}

		r.logger.Debug().
			Str("action", action.Name).
			Int("matched", len(matched)).
			Msg("Action selected")

		selections = append(selections, Selection{Action: action, Files: matched})
	}

	return selections
}

// MatchInclude reports whether path matches the include pattern.
// Matching is case-sensitive and * does not cross path separators.
// A pattern with no separator is matched against the path's base name, so
// "*.py" hits files in any directory; a pattern containing a separator is
// matched against the whole slash-separated path.
func MatchInclude(pattern, path string) bool {
	path = filepath.ToSlash(path)

	target := path
	if !strings.ContainsRune(pattern, '/') {
		target = filepath.Base(path)
	}

	// Pattern validity is checked at registry build time
	matched, err := filepath.Match(pattern, target)
	if err != nil {
		return false
	}
	return matched
}
