// Package template implements the command template used by actions.
//
// A template is a shell command string with one recognized substitution
// token, {files}, which expands to the shell-quoted list of matched file
// paths. Tokens are validated when the template is parsed so that a
// malformed command fails at load time, not halfway through a run.
package template

import (
	"regexp"
	"strings"

	"github.com/arthur-debert/precheck/pkg/errors"
)

// FilesToken is the only substitution token recognized in command templates
const FilesToken = "{files}"

var tokenPattern = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// Template is a parsed command template
type Template struct {
	raw      string
	hasToken bool
}

// Parse validates a raw command string and returns a Template.
// Unknown tokens and repeated {files} tokens are rejected.
func Parse(raw string) (*Template, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errors.New(errors.ErrTemplateInvalid, "command template is empty")
	}

	count := 0
	for _, token := range tokenPattern.FindAllString(raw, -1) {
		if token != FilesToken {
			return nil, errors.Newf(errors.ErrTemplateInvalid,
				"unknown substitution token %q in command template", token)
		}
		count++
	}
	if count > 1 {
		return nil, errors.Newf(errors.ErrTemplateInvalid,
			"command template contains %d {files} tokens, at most one is allowed", count)
	}

	return &Template{raw: raw, hasToken: count == 1}, nil
}

// Raw returns the original template string
func (t *Template) Raw() string {
	return t.raw
}

// HasFilesToken reports whether the template contains the {files} token
func (t *Template) HasFilesToken() bool {
	return t.hasToken
}

// Render substitutes the {files} token with the quoted, space-joined file
// list. Rendering a token-less template against a non-empty file list is an
// error: the files would be silently dropped, which almost always means the
// configuration is wrong. Actions that genuinely take no file arguments opt
// out via pass_files.
func (t *Template) Render(files []string) (string, error) {
	if !t.hasToken {
		if len(files) > 0 {
			return "", errors.Newf(errors.ErrTemplateRender,
				"template %q has no {files} token but %d files matched", t.raw, len(files))
		}
		return t.raw, nil
	}

	quoted := make([]string, 0, len(files))
	for _, f := range files {
		quoted = append(quoted, Quote(f))
	}
	return strings.Replace(t.raw, FilesToken, strings.Join(quoted, " "), 1), nil
}

// Quote returns the string wrapped in POSIX single quotes, with embedded
// single quotes escaped. Strings that need no quoting are returned as-is.
func Quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`&;|<>()*?[]#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
