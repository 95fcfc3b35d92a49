package skills

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/project-tktt/job-explorer/internal/domain"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input domain.Skills
		want  []string
	}{
		{
			name:  "sequence",
			input: domain.SkillsFromList(" Python", "AWS "),
			want:  []string{"python", "aws"},
		},
		{
			name:  "sequence drops non strings",
			input: domain.Skills{Kind: domain.SkillsSequence, Items: []any{"Go", 3.0, nil, []any{"x"}}},
			want:  []string{"go"},
		},
		{
			name:  "encoded python literal",
			input: domain.SkillsFromText("['Python', ' AWS']"),
			want:  []string{"python", "aws"},
		},
		{
			name:  "encoded json array",
			input: domain.SkillsFromText(`["Go", "SQL"]`),
			want:  []string{"go", "sql"},
		},
		{
			name:  "encoded empty list",
			input: domain.SkillsFromText("[]"),
			want:  []string{},
		},
		{
			name:  "malformed text",
			input: domain.SkillsFromText("not a list"),
			want:  []string{},
		},
		{
			name:  "list with numbers",
			input: domain.SkillsFromText("['go', 3]"),
			want:  []string{},
		},
		{
			name:  "bare string literal",
			input: domain.SkillsFromText("'python'"),
			want:  []string{},
		},
		{
			name:  "tuple",
			input: domain.SkillsFromText("('go', 'sql')"),
			want:  []string{},
		},
		{
			name:  "other",
			input: domain.Skills{},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []domain.Skills{
		domain.SkillsFromList("  React ", "NODE.JS"),
		domain.SkillsFromText("['Machine Learning', 'C++']"),
		domain.SkillsFromText("garbage"),
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(domain.SkillsFromList(once...))
		assert.Equal(t, once, twice)

		fromText := Normalize(domain.SkillsFromText(Encode(once)))
		assert.Equal(t, once, fromText)
	}
}

func TestNormalizeCheckedReportsParseError(t *testing.T) {
	out, err := NormalizeChecked(domain.SkillsFromText("[1, 2"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	assert.Empty(t, out)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "[1, 2", perr.Text)

	_, err = NormalizeChecked(domain.SkillsFromText("['go']"))
	assert.NoError(t, err)
}

func TestParseList(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{input: `['a', "b"]`, want: []string{"a", "b"}},
		{input: `  [ 'a' , 'b' , ]  `, want: []string{"a", "b"}},
		{input: `['a' 'b']`, want: []string{"ab"}},
		{input: `[u'caf\xe9']`, want: []string{"café"}},
		{input: `['it\'s']`, want: []string{"it's"}},
		{input: `["tab\there"]`, want: []string{"tab\there"}},
		{input: `['ü']`, want: []string{"ü"}},
		{input: `['a\qb']`, want: []string{`a\qb`}},
		{input: `[r'a\nb']`, want: []string{`a\nb`}},
		{input: `['\101']`, want: []string{"A"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseList(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseListRejects(t *testing.T) {
	inputs := []string{
		"",
		"python, aws",
		"['a'",
		"['a',, 'b']",
		"['a'] extra",
		"[b'a']",
		"[['a']]",
		"{'a'}",
		"['unterminated]",
	}

	for _, in := range inputs {
		_, err := ParseList(in)
		assert.ErrorIs(t, err, ErrParse, "input %q", in)
	}
}

func TestEncode(t *testing.T) {
	assert.Equal(t, "[]", Encode(nil))
	assert.Equal(t, "['python', 'aws']", Encode([]string{"python", "aws"}))
	assert.Equal(t, `["it's"]`, Encode([]string{"it's"}))
	assert.Equal(t, `['say "hi" it\'s']`, Encode([]string{`say "hi" it's`}))
	assert.Equal(t, `['a\\b\n']`, Encode([]string{"a\\b\n"}))

	items := []string{"c#", "node.js", "machine learning", `back\slash`, "quote's", "ümlaut"}
	back, err := ParseList(Encode(items))
	require.NoError(t, err)
	assert.Equal(t, items, back)
}

func TestIsTech(t *testing.T) {
	for _, s := range []string{"python", "c++", "machine learning", "node.js"} {
		assert.True(t, IsTech(s), s)
	}
	for _, s := range []string{"Python", "rust", "", "management"} {
		assert.False(t, IsTech(s), s)
	}
}
