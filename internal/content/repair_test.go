package content

import "testing"

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "plain json untouched",
			raw:  `{"a": 1}`,
			want: `{"a": 1}`,
		},
		{
			name: "json code fence stripped",
			raw:  "Here you go:\n```json\n{\"a\": 1}\n```\nanything after",
			want: `{"a": 1}`,
		},
		{
			name: "bare code fence stripped",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "unterminated fence keeps body",
			raw:  "```json\n{\"a\": 1}",
			want: `{"a": 1}`,
		},
		{
			name: "trailing comma in object removed",
			raw:  `{"a": 1,}`,
			want: `{"a": 1}`,
		},
		{
			name: "trailing comma in array removed",
			raw:  "{\"a\": [1, 2,\n]}",
			want: "{\"a\": [1, 2\n]}",
		},
		{
			name: "control chars dropped, whitespace kept",
			raw:  "{\"a\":\x00 \"b\x1b\",\n\t\"c\": 1}",
			want: "{\"a\": \"b\",\n\t\"c\": 1}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepairJSON(tt.raw); got != tt.want {
				t.Errorf("RepairJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
