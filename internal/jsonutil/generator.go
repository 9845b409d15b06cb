package jsonutil

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/herrhotzenplotz/gcli"
)

const maxGeneratorDepth = 16

type scopeKind int

const (
	scopeObject scopeKind = iota
	scopeArray
)

type genScope struct {
	kind       scopeKind
	firstElem  bool
	awaitValue bool // object scope only: true right after objmember(key)
}

// Generator is a stateful JSON builder that tracks nesting scope so callers
// never need to hand-manage commas or colons.
type Generator struct {
	buf   bytes.Buffer
	stack []genScope
}

// NewGenerator returns an empty Generator.
func NewGenerator() *Generator { return &Generator{} }

func (g *Generator) top() *genScope {
	if len(g.stack) == 0 {
		return nil
	}
	return &g.stack[len(g.stack)-1]
}

// beforeValue writes the comma/colon punctuation due before the next value
// and validates that a value is actually expected here.
func (g *Generator) beforeValue() error {
	s := g.top()
	if s == nil {
		return &gcli.EncodeError{Reason: "value emitted outside any scope"}
	}
	switch s.kind {
	case scopeArray:
		if !s.firstElem {
			g.buf.WriteByte(',')
		}
		s.firstElem = false
	case scopeObject:
		if !s.awaitValue {
			return &gcli.EncodeError{Reason: "value emitted in object scope without a preceding objmember key"}
		}
		s.awaitValue = false
	}
	return nil
}

// BeginObject opens an object, either as a standalone root value or as the
// value following an objmember key or an array element.
func (g *Generator) BeginObject() error {
	if len(g.stack) > 0 {
		if err := g.beforeValue(); err != nil {
			return err
		}
	}
	if len(g.stack) >= maxGeneratorDepth {
		return &gcli.EncodeError{Reason: "maximum generator nesting depth exceeded"}
	}
	g.buf.WriteByte('{')
	g.stack = append(g.stack, genScope{kind: scopeObject, firstElem: true})
	return nil
}

// EndObject closes the innermost object scope.
func (g *Generator) EndObject() error {
	s := g.top()
	if s == nil || s.kind != scopeObject {
		return &gcli.EncodeError{Reason: "unbalanced end_object"}
	}
	if s.awaitValue {
		return &gcli.EncodeError{Reason: "end_object with a pending objmember awaiting its value"}
	}
	g.buf.WriteByte('}')
	g.stack = g.stack[:len(g.stack)-1]
	return nil
}

// BeginArray opens an array.
func (g *Generator) BeginArray() error {
	if len(g.stack) > 0 {
		if err := g.beforeValue(); err != nil {
			return err
		}
	}
	if len(g.stack) >= maxGeneratorDepth {
		return &gcli.EncodeError{Reason: "maximum generator nesting depth exceeded"}
	}
	g.buf.WriteByte('[')
	g.stack = append(g.stack, genScope{kind: scopeArray, firstElem: true})
	return nil
}

// EndArray closes the innermost array scope.
func (g *Generator) EndArray() error {
	s := g.top()
	if s == nil || s.kind != scopeArray {
		return &gcli.EncodeError{Reason: "unbalanced end_array"}
	}
	g.buf.WriteByte(']')
	g.stack = g.stack[:len(g.stack)-1]
	return nil
}

// ObjMember writes the given key followed by a colon; it must be called in
// object scope and must be followed by exactly one value call.
func (g *Generator) ObjMember(key string) error {
	s := g.top()
	if s == nil || s.kind != scopeObject {
		return &gcli.EncodeError{Reason: "objmember outside object scope"}
	}
	if s.awaitValue {
		return &gcli.EncodeError{Reason: "objmember called before the previous member's value"}
	}
	if !s.firstElem {
		g.buf.WriteByte(',')
	}
	s.firstElem = false
	g.writeJSONString(key)
	g.buf.WriteString(": ")
	s.awaitValue = true
	return nil
}

// String writes a JSON-escaped string value.
func (g *Generator) String(v string) error {
	if err := g.beforeValue(); err != nil {
		return err
	}
	g.writeJSONString(v)
	return nil
}

// Number writes a numeric value.
func (g *Generator) Number(v float64) error {
	if err := g.beforeValue(); err != nil {
		return err
	}
	g.buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	return nil
}

// Int writes an integer value without float formatting artifacts.
func (g *Generator) Int(v int64) error {
	if err := g.beforeValue(); err != nil {
		return err
	}
	g.buf.WriteString(strconv.FormatInt(v, 10))
	return nil
}

// Bool writes a boolean value.
func (g *Generator) Bool(v bool) error {
	if err := g.beforeValue(); err != nil {
		return err
	}
	if v {
		g.buf.WriteString("true")
	} else {
		g.buf.WriteString("false")
	}
	return nil
}

// Null writes a JSON null value.
func (g *Generator) Null() error {
	if err := g.beforeValue(); err != nil {
		return err
	}
	g.buf.WriteString("null")
	return nil
}

// writeJSONString escapes the minimal set spec.md calls out (newline, tab,
// CR, backslash, double-quote) via encoding/json's Marshal, which is a
// strict superset of that escaping and therefore always safe here.
func (g *Generator) writeJSONString(s string) {
	b, _ := json.Marshal(s)
	g.buf.Write(b)
}

// ToString returns the accumulated buffer. It may be called before every
// scope is closed, in which case the result is not valid JSON — callers
// are expected to balance their Begin/End calls.
func (g *Generator) ToString() string {
	return g.buf.String()
}

// Bytes returns the accumulated buffer as a byte slice for direct use as an
// HTTP request payload.
func (g *Generator) Bytes() []byte {
	return g.buf.Bytes()
}
