package model

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func conversation(contents ...string) []Message {
	msgs := make([]Message, len(contents))
	for i, c := range contents {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		msgs[i] = Message{Role: role, Content: c}
	}
	return msgs
}

func TestContextWindowApply(t *testing.T) {
	long := strings.Repeat("x", 40) // 10 tokens

	tests := []struct {
		name   string
		window ContextWindow
		input  []Message
		want   []Message
	}{
		{
			name:   "empty history",
			window: ContextWindow{MaxMessages: 2},
			input:  nil,
			want:   []Message{},
		},
		{
			name:   "unbounded keeps everything",
			window: ContextWindow{},
			input:  conversation("a", "b", "c", "d", "e"),
			want:   conversation("a", "b", "c", "d", "e"),
		},
		{
			name:   "max messages keeps newest",
			window: ContextWindow{MaxMessages: 3},
			input:  conversation("a", "b", "c", "d", "e"),
			want:   conversation("a", "b", "c", "d", "e")[2:],
		},
		{
			name:   "leading assistant is dropped",
			window: ContextWindow{MaxMessages: 2},
			input:  conversation("a", "b", "c", "d", "e"),
			want:   conversation("a", "b", "c", "d", "e")[4:],
		},
		{
			name:   "token budget drops oldest",
			window: ContextWindow{MaxTokens: 25},
			input:  conversation(long, long, long, long, long),
			want:   conversation(long, long, long, long, long)[4:],
		},
		{
			name:   "token budget fits pair",
			window: ContextWindow{MaxTokens: 30},
			input:  conversation(long, long, long, long, long),
			want:   conversation(long, long, long, long, long)[2:],
		},
		{
			name:   "newest message always kept",
			window: ContextWindow{MaxTokens: 1},
			input:  conversation("hello", "hi", long),
			want:   conversation("hello", "hi", long)[2:],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.window.Apply(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContextWindowApplyDoesNotAlias(t *testing.T) {
	input := conversation("a", "b", "c")
	got := ContextWindow{}.Apply(input)
	got[0].Content = "changed"

	if input[0].Content != "a" {
		t.Errorf("Apply() result aliases its input")
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"héllo wörld", 3},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
