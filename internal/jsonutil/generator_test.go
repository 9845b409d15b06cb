package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGeneratorObject(t *testing.T) {
	g := NewGenerator()
	if err := g.BeginObject(); err != nil {
		t.Fatalf("BeginObject: %v", err)
	}
	if err := g.ObjMember("title"); err != nil {
		t.Fatalf("ObjMember: %v", err)
	}
	if err := g.String("hello \"world\""); err != nil {
		t.Fatalf("String: %v", err)
	}
	if err := g.ObjMember("count"); err != nil {
		t.Fatalf("ObjMember: %v", err)
	}
	if err := g.Int(3); err != nil {
		t.Fatalf("Int: %v", err)
	}
	if err := g.ObjMember("labels"); err != nil {
		t.Fatalf("ObjMember: %v", err)
	}
	if err := g.BeginArray(); err != nil {
		t.Fatalf("BeginArray: %v", err)
	}
	if err := g.String("bug"); err != nil {
		t.Fatalf("String: %v", err)
	}
	if err := g.String("p1"); err != nil {
		t.Fatalf("String: %v", err)
	}
	if err := g.EndArray(); err != nil {
		t.Fatalf("EndArray: %v", err)
	}
	if err := g.ObjMember("milestone"); err != nil {
		t.Fatalf("ObjMember: %v", err)
	}
	if err := g.Null(); err != nil {
		t.Fatalf("Null: %v", err)
	}
	if err := g.EndObject(); err != nil {
		t.Fatalf("EndObject: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(g.Bytes(), &got); err != nil {
		t.Fatalf("generated output is not valid JSON: %v\n%s", err, g.ToString())
	}

	want := map[string]any{
		"title":     `hello "world"`,
		"count":     float64(3),
		"labels":    []any{"bug", "p1"},
		"milestone": nil,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("generated JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestGeneratorUnbalancedEnd(t *testing.T) {
	g := NewGenerator()
	if err := g.EndObject(); err == nil {
		t.Fatal("expected error closing an object with no scope open")
	}
}

func TestGeneratorObjMemberOutsideObject(t *testing.T) {
	g := NewGenerator()
	if err := g.BeginArray(); err != nil {
		t.Fatalf("BeginArray: %v", err)
	}
	if err := g.ObjMember("key"); err == nil {
		t.Fatal("expected error calling ObjMember in array scope")
	}
}

func TestGeneratorDepthLimit(t *testing.T) {
	g := NewGenerator()
	for i := 0; i < maxGeneratorDepth; i++ {
		if err := g.BeginArray(); err != nil {
			t.Fatalf("BeginArray at depth %d: %v", i, err)
		}
	}
	if err := g.BeginArray(); err == nil {
		t.Fatal("expected depth-limit error")
	}
}
