package jsonutil

import (
	"testing"
)

func TestStreamScalars(t *testing.T) {
	s := NewStreamBytes([]byte(`{"n":42,"big":9000000000,"pi":3.5,"ok":true,"name":"gcli","null_name":null}`))

	if err := s.expectDelim("test", '{'); err != nil {
		t.Fatalf("expectDelim: %v", err)
	}

	cases := []struct {
		key  string
		want any
		get  func() (any, error)
	}{
		{"n", 42, func() (any, error) { return s.GetInt() }},
		{"big", int64(9000000000), func() (any, error) { return s.GetLong() }},
		{"pi", 3.5, func() (any, error) { return s.GetDouble() }},
		{"ok", true, func() (any, error) { return s.GetBool() }},
		{"name", "gcli", func() (any, error) { return s.GetString() }},
		{"null_name", emptyPlaceholder, func() (any, error) { return s.GetString() }},
	}

	for _, c := range cases {
		if err := s.Advance("s", c.key); err != nil {
			t.Fatalf("advance to key %q: %v", c.key, err)
		}
		got, err := c.get()
		if err != nil {
			t.Fatalf("get %q: %v", c.key, err)
		}
		if got != c.want {
			t.Errorf("key %q: got %v, want %v", c.key, got, c.want)
		}
	}
}

func TestStreamGetUser(t *testing.T) {
	s := NewStreamBytes([]byte(`{"login":"octocat","id":1,"extra":{"nested":true}}`))
	user, err := s.GetUser("login")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if user != "octocat" {
		t.Errorf("GetUser = %q, want octocat", user)
	}
}

func TestStreamGetLabel(t *testing.T) {
	s := NewStreamBytes([]byte(`{"id":1,"name":"bug","color":"ff0000"}`))
	name, err := s.GetLabel()
	if err != nil {
		t.Fatalf("GetLabel: %v", err)
	}
	if name != "bug" {
		t.Errorf("GetLabel = %q, want bug", name)
	}
}

func TestStreamSkipValue(t *testing.T) {
	s := NewStreamBytes([]byte(`{"skip":{"a":[1,2,{"b":3}]},"keep":"here"}`))
	if err := s.Advance("{s", "skip"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if err := s.SkipValue(); err != nil {
		t.Fatalf("SkipValue: %v", err)
	}
	if err := s.Advance("s", "keep"); err != nil {
		t.Fatalf("advance to keep: %v", err)
	}
	got, err := s.GetString()
	if err != nil {
		t.Fatalf("GetString: %v", err)
	}
	if got != "here" {
		t.Errorf("GetString = %q, want here", got)
	}
}

func TestAdvanceMismatch(t *testing.T) {
	s := NewStreamBytes([]byte(`{"actual":1}`))
	if err := s.Advance("{s", "expected"); err == nil {
		t.Fatal("expected a mismatch error, got nil")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		fn   func(string) (uint32, error)
		in   string
		want uint32
	}{
		{GetGitHubStyleColor, "ff0000", 0xff000000},
		{GetGitHubStyleColor, "#00ff00", 0x00ff0000},
		{GetGitLabStyleColor, "#0000ff", 0x0000ff00},
	}
	for _, tt := range tests {
		got, err := tt.fn(tt.in)
		if err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("%s: got %#08x, want %#08x", tt.in, got, tt.want)
		}
	}

	if _, err := GetGitHubStyleColor("zzz"); err == nil {
		t.Fatal("expected error for invalid hex color")
	}
}
