// Package jsonutil implements the stream-oriented JSON pull-parser helpers
// and the scope-tracking JSON generator shared by every forge adapter.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/herrhotzenplotz/gcli"
)

// emptyPlaceholder is returned by GetString when the token stream yields a
// JSON null where a scalar string was expected. This mirrors a
// printing-centric compatibility quirk of the original C implementation:
// callers that need to distinguish null from the empty string must consume
// the token manually via Peek/Token instead.
const emptyPlaceholder = "<empty>"

// Stream wraps encoding/json's token-level decoder, the idiomatic Go
// analogue of a pull parser: every call advances exactly one token (or one
// balanced value, for SkipValue/GetLabel/GetUser).
type Stream struct {
	dec *json.Decoder
}

// NewStream builds a Stream reading from r.
func NewStream(r io.Reader) *Stream {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &Stream{dec: dec}
}

// NewStreamBytes builds a Stream reading from an in-memory buffer.
func NewStreamBytes(b []byte) *Stream {
	return NewStream(bytes.NewReader(b))
}

func decodeErr(fn, reason string) error {
	return &gcli.DecodeError{Func: fn, Reason: reason}
}

// token reads the next raw token, translating io.EOF into a decode error
// naming fn so the caller's context survives in the message.
func (s *Stream) token(fn string) (json.Token, error) {
	tok, err := s.dec.Token()
	if err == io.EOF {
		return nil, decodeErr(fn, "unexpected end of stream")
	}
	if err != nil {
		return nil, decodeErr(fn, err.Error())
	}
	return tok, nil
}

// GetInt consumes the next scalar token as an int. A JSON null yields 0.
func (s *Stream) GetInt() (int, error) {
	tok, err := s.token("get_int")
	if err != nil {
		return 0, err
	}
	switch v := tok.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, decodeErr("get_int", "not an integer: "+v.String())
		}
		return int(n), nil
	case nil:
		return 0, nil
	default:
		return 0, decodeErr("get_int", fmt.Sprintf("expected number, got %T", tok))
	}
}

// GetLong consumes the next scalar token as an int64. A JSON null yields 0.
func (s *Stream) GetLong() (int64, error) {
	tok, err := s.token("get_long")
	if err != nil {
		return 0, err
	}
	switch v := tok.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, decodeErr("get_long", "not an integer: "+v.String())
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, decodeErr("get_long", fmt.Sprintf("expected number, got %T", tok))
	}
}

// GetSizeT consumes the next scalar token as a uint64. A JSON null yields 0.
func (s *Stream) GetSizeT() (uint64, error) {
	tok, err := s.token("get_size_t")
	if err != nil {
		return 0, err
	}
	switch v := tok.(type) {
	case json.Number:
		n, err := strconv.ParseUint(v.String(), 10, 64)
		if err != nil {
			return 0, decodeErr("get_size_t", "not an unsigned integer: "+v.String())
		}
		return n, nil
	case nil:
		return 0, nil
	default:
		return 0, decodeErr("get_size_t", fmt.Sprintf("expected number, got %T", tok))
	}
}

// GetDouble consumes the next scalar token as a float64. A JSON null yields 0.
func (s *Stream) GetDouble() (float64, error) {
	tok, err := s.token("get_double")
	if err != nil {
		return 0, err
	}
	switch v := tok.(type) {
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, decodeErr("get_double", "not a number: "+v.String())
		}
		return f, nil
	case nil:
		return 0, nil
	default:
		return 0, decodeErr("get_double", fmt.Sprintf("expected number, got %T", tok))
	}
}

// GetBool consumes the next scalar token as a bool.
func (s *Stream) GetBool() (bool, error) {
	tok, err := s.token("get_bool")
	if err != nil {
		return false, err
	}
	switch v := tok.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	default:
		return false, decodeErr("get_bool", fmt.Sprintf("expected bool, got %T", tok))
	}
}

// GetString consumes the next scalar token as a string. A JSON null yields
// the literal "<empty>" — see the emptyPlaceholder doc comment.
func (s *Stream) GetString() (string, error) {
	tok, err := s.token("get_string")
	if err != nil {
		return "", err
	}
	switch v := tok.(type) {
	case string:
		return v, nil
	case nil:
		return emptyPlaceholder, nil
	default:
		return "", decodeErr("get_string", fmt.Sprintf("expected string, got %T", tok))
	}
}

// GetUser enters an object and scans it for userKey (the backend-specific
// user-identifier field, e.g. "login" for GitHub, "username" for GitLab),
// returning its string value and discarding the rest of the object.
func (s *Stream) GetUser(userKey string) (string, error) {
	if err := s.expectDelim("get_user", '{'); err != nil {
		return "", err
	}
	var user string
	for s.dec.More() {
		keyTok, err := s.token("get_user")
		if err != nil {
			return "", err
		}
		key, _ := keyTok.(string)
		if key == userKey {
			val, err := s.GetString()
			if err != nil {
				return "", err
			}
			user = val
			continue
		}
		if err := s.SkipValue(); err != nil {
			return "", err
		}
	}
	if err := s.expectDelim("get_user", '}'); err != nil {
		return "", err
	}
	return user, nil
}

// GetLabel enters an object and returns its "name" field, discarding the
// rest.
func (s *Stream) GetLabel() (string, error) {
	if err := s.expectDelim("get_label", '{'); err != nil {
		return "", err
	}
	var name string
	for s.dec.More() {
		keyTok, err := s.token("get_label")
		if err != nil {
			return "", err
		}
		key, _ := keyTok.(string)
		if key == "name" {
			val, err := s.GetString()
			if err != nil {
				return "", err
			}
			name = val
			continue
		}
		if err := s.SkipValue(); err != nil {
			return "", err
		}
	}
	if err := s.expectDelim("get_label", '}'); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Stream) expectDelim(fn string, want json.Delim) error {
	tok, err := s.token(fn)
	if err != nil {
		return err
	}
	d, ok := tok.(json.Delim)
	if !ok || d != want {
		return decodeErr(fn, fmt.Sprintf("expected %q, got %v", want, tok))
	}
	return nil
}

// Advance navigates nested structure per a mini format language: '{' opens
// an object, '}' closes one, '[' opens an array, ']' closes one, 's'
// consumes an expected string-valued token (compared against the next
// vararg), and 'i' consumes (and discards) an integer token. It fails with
// a contextual error on the first mismatch.
func (s *Stream) Advance(format string, args ...string) error {
	argi := 0
	for _, c := range format {
		switch c {
		case '{':
			if err := s.expectDelim("advance", '{'); err != nil {
				return err
			}
		case '}':
			if err := s.expectDelim("advance", '}'); err != nil {
				return err
			}
		case '[':
			if err := s.expectDelim("advance", '['); err != nil {
				return err
			}
		case ']':
			if err := s.expectDelim("advance", ']'); err != nil {
				return err
			}
		case 's':
			if argi >= len(args) {
				return decodeErr("advance", "format string requires more string arguments than given")
			}
			got, err := s.GetString()
			if err != nil {
				return err
			}
			if got != args[argi] {
				return decodeErr("advance", fmt.Sprintf("expected string %q, got %q", args[argi], got))
			}
			argi++
		case 'i':
			if _, err := s.GetLong(); err != nil {
				return err
			}
		default:
			return decodeErr("advance", fmt.Sprintf("unknown format verb %q", c))
		}
	}
	return nil
}

// SkipValue fast-forwards over the next value regardless of its type,
// performing a balanced brace/bracket skip for objects and arrays.
func (s *Stream) SkipValue() error {
	tok, err := s.token("skip_value")
	if err != nil {
		return err
	}
	if _, ok := tok.(json.Delim); !ok {
		return nil // scalar already consumed
	}
	depth := 1
	for depth > 0 {
		tok, err := s.token("skip_value")
		if err != nil {
			return err
		}
		if dd, ok := tok.(json.Delim); ok {
			switch dd {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}

// GetGitHubStyleColor parses a GitHub-style "RRGGBB" hex color (no hash
// prefix) into 0xRRGGBB00.
func GetGitHubStyleColor(s string) (uint32, error) {
	return parseHexColor("get_github_style_color", strings.TrimPrefix(s, "#"))
}

// GetGitLabStyleColor parses a GitLab-style "#RRGGBB" hex color into
// 0xRRGGBB00.
func GetGitLabStyleColor(s string) (uint32, error) {
	return parseHexColor("get_gitlab_style_color", strings.TrimPrefix(s, "#"))
}

func parseHexColor(fn, s string) (uint32, error) {
	if len(s) != 6 {
		return 0, decodeErr(fn, "expected a 6-digit hex color, got "+s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, decodeErr(fn, "invalid hex color: "+s)
	}
	return uint32(v) << 8, nil
}
