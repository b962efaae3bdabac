package errors

import (
	"errors"
	"reflect"
	"testing"
)

func TestWrap(t *testing.T) {
	err := errors.New("0")
	err1 := Wrap(err, "1")
	err2 := Wrap(err1, "2")
	err3 := Wrap(err2)

	if got := Root(err1); got != err {
		t.Fatalf("Root(%v)=%v want %v", err1, got, err)
	}
	if got := Root(err2); got != err {
		t.Fatalf("Root(%v)=%v want %v", err2, got, err)
	}
	if err2.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err2.Error())
	}
	if err3.Error() != "2: 1: 0" {
		t.Fatalf("err msg = %s want '2: 1: 0'", err3.Error())
	}
	if !Is(err3, err) {
		t.Fatalf("Is(%v, %v) = false want true", err3, err)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "1") != nil {
		t.Fatal("wrapping nil error should yield nil")
	}
	if WithDetail(nil, "x") != nil {
		t.Fatal("detail on nil error should yield nil")
	}
}

func TestStackKeptAcrossWraps(t *testing.T) {
	err := Wrap(errors.New("0"), "1")
	stack := Stack(err)
	if len(stack) == 0 {
		t.Fatal("expected a stack")
	}
	if got := Stack(Wrap(err, "2")); !reflect.DeepEqual(got, stack) {
		t.Errorf("rewrap changed the stack")
	}
}

func TestDetail(t *testing.T) {
	root := errors.New("root")
	err := WithDetail(root, "a")
	err = WithDetailf(err, "b=%d", 1)
	if got := Detail(err); got != "a; b=1" {
		t.Errorf("Detail = %q want %q", got, "a; b=1")
	}
	if got := err.Error(); got != "b=1: a: root" {
		t.Errorf("Error = %q", got)
	}
	if Root(err) != root {
		t.Errorf("Root changed")
	}
}

func TestData(t *testing.T) {
	err := WithData(errors.New("x"), "k1", 1)
	err = WithData(err, "k2", "v")
	want := map[string]interface{}{"k1": 1, "k2": "v"}
	if got := Data(err); !reflect.DeepEqual(got, want) {
		t.Errorf("Data = %v want %v", got, want)
	}
}

func TestSub(t *testing.T) {
	sentinel := errors.New("sentinel")
	cause := Wrap(errors.New("cause"), "ctx")
	err := Sub(sentinel, cause)
	if Root(err) != sentinel {
		t.Errorf("Root = %v want %v", Root(err), sentinel)
	}
	if got := err.Error(); got != "sentinel: ctx: cause" {
		t.Errorf("Error = %q", got)
	}
	if Sub(sentinel, nil) != nil {
		t.Errorf("Sub of nil should be nil")
	}
}
