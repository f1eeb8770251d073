package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string]string
	}{
		{
			name:     "simple key-value",
			content:  "API_KEY=secret123",
			expected: map[string]string{"API_KEY": "secret123"},
		},
		{
			name:     "quoted values",
			content:  "A=\"with spaces\"\nB='single'",
			expected: map[string]string{"A": "with spaces", "B": "single"},
		},
		{
			name:     "comments, blanks and export",
			content:  "# token\n\nexport TOKEN=abc\nnot a pair\n=orphan",
			expected: map[string]string{"TOKEN": "abc"},
		},
		{
			name:     "value containing equals",
			content:  "QUERY=a=b&c=d",
			expected: map[string]string{"QUERY": "a=b&c=d"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".env")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := LoadDotEnv(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	_, err := LoadDotEnv(filepath.Join(t.TempDir(), "nope.env"))
	assert.ErrorContains(t, err, "cannot open env file")
}

func TestParseVars(t *testing.T) {
	vars, err := ParseVars([]string{"host=api.test", "token = 'x y'"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"host": "api.test", "token": "x y"}, vars)

	_, err = ParseVars([]string{"novalue"})
	assert.Error(t, err)
}

func TestMergeVariables(t *testing.T) {
	got := MergeVariables(
		map[string]string{"a": "1", "b": "1"},
		nil,
		map[string]string{"b": "2"},
	)
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, got)
}

func TestResolver_Resolve(t *testing.T) {
	env := map[string]string{"HOME_URL": "https://home.test"}
	var warnings []string
	r := NewResolver(
		map[string]string{"host": "api.test", "id": "42"},
		WithLookupEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok }),
		WithWarnFunc(func(format string, args ...any) { warnings = append(warnings, format) }),
	)

	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"https://{{host}}/users/{{ id }}", "https://api.test/users/42"},
		{"{{$HOME_URL}}/x", "https://home.test/x"},
		{"{{missing}}", "{{missing}}"},
		{"{{$MISSING}}", "{{$MISSING}}"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Resolve(tt.input), tt.input)
	}
	assert.Len(t, warnings, 2)
}
