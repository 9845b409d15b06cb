package gcli

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

type stubForge struct {
	UnimplementedForge
}

func TestContextDispatch(t *testing.T) {
	c := NewContext(StaticSelectorForTest(ForgeGitHub), nil)
	c.RegisterForge(ForgeGitHub, &stubForge{UnimplementedForge: UnimplementedForge{ForgeType: ForgeGitHub}})

	f, err := c.Dispatch()
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if f.Type() != ForgeGitHub {
		t.Errorf("Type() = %q, want github", f.Type())
	}
}

func TestContextDispatchNoAdapter(t *testing.T) {
	c := NewContext(StaticSelectorForTest(ForgeGitLab), nil)
	if _, err := c.Dispatch(); err == nil {
		t.Fatal("expected an error when no adapter is registered")
	}
}

func TestContextDispatchNoSelector(t *testing.T) {
	c := NewContext(nil, nil)
	if _, err := c.Dispatch(); err == nil {
		t.Fatal("expected an error with no selector configured")
	}
}

func TestContextFailRecordsAndReturns(t *testing.T) {
	c := NewContext(StaticSelectorForTest(ForgeGitHub), nil)
	if c.Error() != "" {
		t.Fatalf("Error() = %q before any failure, want empty", c.Error())
	}

	want := &InputError{Reason: "boom"}
	got := c.Fail(want)
	if got != want {
		t.Errorf("Fail should return err unchanged")
	}
	if c.Error() != "boom" {
		t.Errorf("Error() = %q, want boom", c.Error())
	}

	var ie *InputError
	if !errors.As(c.LastError(), &ie) {
		t.Errorf("LastError() did not unwrap to *InputError")
	}
}

func TestContextFailNilIsNoop(t *testing.T) {
	c := NewContext(StaticSelectorForTest(ForgeGitHub), nil)
	if err := c.Fail(nil); err != nil {
		t.Errorf("Fail(nil) = %v, want nil", err)
	}
	if c.Error() != "" {
		t.Errorf("Error() = %q after Fail(nil), want empty", c.Error())
	}
}

func TestContextNilLoggerDefaultsToNop(t *testing.T) {
	c := NewContext(StaticSelectorForTest(ForgeGitHub), nil)
	if c.Logger() == nil {
		t.Fatal("Logger() returned nil")
	}
	c.Logger().Info("should not panic")
}

func TestContextExplicitLogger(t *testing.T) {
	logger := zap.NewNop()
	c := NewContext(StaticSelectorForTest(ForgeGitHub), logger)
	if c.Logger() != logger {
		t.Error("Logger() did not return the logger passed to NewContext")
	}
}

// StaticSelectorForTest avoids importing the config package (which itself
// imports gcli) from this package's tests.
func StaticSelectorForTest(t ForgeType) ForgeSelector {
	return func() (ForgeType, error) { return t, nil }
}
