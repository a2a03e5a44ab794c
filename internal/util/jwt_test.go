package util_test

import (
	"net/http"
	"testing"

	"projecthub/internal/util"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := util.GenerateJWT(42, "secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	userID, err := util.ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if userID != 42 {
		t.Errorf("user_id = %d, want 42", userID)
	}
}

func TestParseJWTWrongSecret(t *testing.T) {
	token, err := util.GenerateJWT(42, "secret")
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := util.ParseJWT(token, "other-secret"); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestParseJWTGarbage(t *testing.T) {
	if _, err := util.ParseJWT("not-a-token", "secret"); err == nil {
		t.Fatal("expected parse failure")
	}
}

func TestExtractToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"", ""},
		{"abc", ""},
		{"Basic abc", ""},
	}
	for _, tc := range cases {
		r, _ := http.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		if got := util.ExtractToken(r); got != tc.want {
			t.Errorf("ExtractToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
