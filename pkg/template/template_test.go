package template

import (
	"testing"

	"github.com/arthur-debert/precheck/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantErr   bool
		wantToken bool
	}{
		{
			name:      "simple template with token",
			raw:       "black {files}",
			wantToken: true,
		},
		{
			name:      "token in the middle",
			raw:       "mypy --strict {files} --no-error-summary",
			wantToken: true,
		},
		{
			name:      "no token",
			raw:       "make typecheck",
			wantToken: false,
		},
		{
			name:    "empty template",
			raw:     "   ",
			wantErr: true,
		},
		{
			name:    "unknown token",
			raw:     "black {paths}",
			wantErr: true,
		},
		{
			name:    "duplicate files token",
			raw:     "diff {files} {files}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := Parse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateInvalid))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.raw, tmpl.Raw())
			assert.Equal(t, tt.wantToken, tmpl.HasFilesToken())
		})
	}
}

func TestRender(t *testing.T) {
	tmpl, err := Parse("isort {files}")
	require.NoError(t, err)

	out, err := tmpl.Render([]string{"a.py", "pkg/b.py"})
	require.NoError(t, err)
	assert.Equal(t, "isort a.py pkg/b.py", out)
}

func TestRenderQuoting(t *testing.T) {
	tmpl, err := Parse("black {files}")
	require.NoError(t, err)

	out, err := tmpl.Render([]string{"my file.py", "it's.py"})
	require.NoError(t, err)
	assert.Equal(t, `black 'my file.py' 'it'\''s.py'`, out)
}

func TestRenderNoTokenWithFiles(t *testing.T) {
	tmpl, err := Parse("make typecheck")
	require.NoError(t, err)

	_, err = tmpl.Render([]string{"a.py"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateRender))
}

func TestRenderNoTokenNoFiles(t *testing.T) {
	tmpl, err := Parse("make typecheck")
	require.NoError(t, err)

	out, err := tmpl.Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "make typecheck", out)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "a.py", Quote("a.py"))
	assert.Equal(t, "'a b.py'", Quote("a b.py"))
	assert.Equal(t, `'a'\''b.py'`, Quote("a'b.py"))
	assert.Equal(t, "''", Quote(""))
	assert.Equal(t, "'$(rm -rf .).py'", Quote("$(rm -rf .).py"))
}
