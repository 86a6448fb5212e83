package state

import (
	"encoding/json"
	"testing"
)

func TestRawSessionIDToleratesTruncation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		want    string
	}{
		{"truncated after id", `{"session_id":"s1","message":`, "s1"},
		{"id after nested value", `{"meta":{"a":1},"session_id":"s2","task":`, "s2"},
		{"id missing before truncation", `{"message":{"id":`, ""},
		{"non-object payload", `"boom"`, ""},
		{"non-string id", `{"session_id":42}`, ""},
		{"empty payload", ``, ""},
	}
	for _, tc := range cases {
		if got := rawSessionID(json.RawMessage(tc.payload)); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
