package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBatch(t *testing.T) {
	content := `[
		{"title": "T1", "description": "D1", "meta_description": "M1"},
		{"title": "T2", "description": "D2", "meta_description": "M2"}
	]`

	fields, err := parseBatch(content, 2)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "T1", fields[0].Title)
	assert.Equal(t, "D2", fields[1].Description)
	assert.Equal(t, "M2", fields[1].MetaDescription)
}

func TestParseBatchToleratesMarkdownFence(t *testing.T) {
	content := "Here you go:\n```json\n[{\"title\": \"T1\", \"description\": \"D1\", \"meta_description\": \"M1\"}]\n```"

	fields, err := parseBatch(content, 1)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.Equal(t, "T1", fields[0].Title)
}

func TestParseBatchPadsShortResponse(t *testing.T) {
	content := `[{"title": "T1", "description": "D1", "meta_description": "M1"}]`

	fields, err := parseBatch(content, 3)
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, "T1", fields[0].Title)
	assert.Equal(t, FieldSet{}, fields[1])
	assert.Equal(t, FieldSet{}, fields[2])
}

func TestParseBatchRejectsOversizedResponse(t *testing.T) {
	content := `[{"title": "T1"}, {"title": "T2"}]`

	_, err := parseBatch(content, 1)
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, FailureMalformed, f.Kind)
}

func TestParseBatchRejectsNonJSON(t *testing.T) {
	_, err := parseBatch("I could not generate anything today.", 2)
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, FailureMalformed, f.Kind)
}

func TestExtractJSONArray(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		want    string
		wantErr bool
	}{
		{
			name:    "bare array",
			content: `[{"a": 1}]`,
			want:    `[{"a": 1}]`,
		},
		{
			name:    "surrounded by prose",
			content: "Sure!\n[{\"a\": 1}]\nLet me know if you need more.",
			want:    `[{"a": 1}]`,
		},
		{
			name:    "brackets inside strings ignored",
			content: `[{"title": "Laptop [15-inch]"}]`,
			want:    `[{"title": "Laptop [15-inch]"}]`,
		},
		{
			name:    "escaped quote inside string",
			content: `[{"title": "a \" ] b"}]`,
			want:    `[{"title": "a \" ] b"}]`,
		},
		{
			name:    "nested arrays balanced",
			content: `[[1, 2], [3]]`,
			want:    `[[1, 2], [3]]`,
		},
		{
			name:    "no array",
			content: `{"title": "x"}`,
			wantErr: true,
		},
		{
			name:    "unterminated array",
			content: `[{"title": "x"}`,
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := extractJSONArray(tc.content)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	testCases := []struct {
		code int
		want FailureKind
	}{
		{429, FailureRateLimited},
		{401, FailureUnauthorized},
		{403, FailureUnauthorized},
		{408, FailureTimeout},
		{504, FailureTimeout},
		{500, FailureMalformed},
		{400, FailureMalformed},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, classifyStatus(tc.code), "status %d", tc.code)
	}
}

func TestFailureRetryable(t *testing.T) {
	assert.True(t, (&Failure{Kind: FailureRateLimited}).Retryable())
	assert.True(t, (&Failure{Kind: FailureTimeout}).Retryable())
	assert.False(t, (&Failure{Kind: FailureMalformed}).Retryable())
	assert.False(t, (&Failure{Kind: FailureUnauthorized}).Retryable())
}

func TestFailureMatchesErrorsAs(t *testing.T) {
	var wrapped error = newFailure(FailureRateLimited, "HTTP %d", 429)
	var f *Failure
	require.True(t, errors.As(wrapped, &f))
	assert.Equal(t, FailureRateLimited, f.Kind)
	assert.Contains(t, f.Message, "429")
}

func TestBuildUserPrompt(t *testing.T) {
	prompt := buildUserPrompt([]ItemDescriptor{
		{ProductID: "p1", Name: "ThinkPad X1", Brand: "Lenovo", Category: "Laptop"},
		{ProductID: "p2", Name: "Mystery Gadget"},
	})

	assert.Contains(t, prompt, "1. ThinkPad X1 | Brand: Lenovo | Type: Laptop")
	// Missing attributes fall back to generic placeholders.
	assert.Contains(t, prompt, "2. Mystery Gadget | Brand: Brand | Type: Category")
	assert.Equal(t, 1, strings.Count(prompt, "ThinkPad X1"))
}
