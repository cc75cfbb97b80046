package jsbridge

import (
	"math"
	"testing"

	"github.com/hostside/jsbridge/errors"
)

func TestScalarConstructors(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"undefined", Undefined(), KindUndefined},
		{"null", Null(), KindNull},
		{"true", Boolean(true), KindBoolean},
		{"false", Boolean(false), KindBoolean},
		{"number", Number(3.5), KindNumber},
		{"int", Int(42), KindNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.Kind(); got != tt.kind {
				t.Fatalf("Kind() = %v, want %v", got, tt.kind)
			}
			if !tt.v.Live() {
				t.Fatalf("scalar value should always be live")
			}
		})
	}
}

func TestKindPredicatesAreExclusive(t *testing.T) {
	values := map[Kind]Value{
		KindUndefined: Undefined(),
		KindNull:      Null(),
		KindBoolean:   Boolean(true),
		KindNumber:    Number(1),
	}
	for kind, v := range values {
		preds := map[Kind]bool{
			KindUndefined: v.IsUndefined(),
			KindNull:      v.IsNull(),
			KindBoolean:   v.IsBoolean(),
			KindNumber:    v.IsNumber(),
			KindSymbol:    v.IsSymbol(),
			KindString:    v.IsString(),
			KindObject:    v.IsObject(),
		}
		for k, held := range preds {
			if want := k == kind; held != want {
				t.Fatalf("kind %v: predicate for %v = %v, want %v", kind, k, held, want)
			}
		}
	}
}

func TestScalarAccessors(t *testing.T) {
	if got := Boolean(true).GetBoolean(); !got {
		t.Fatalf("GetBoolean() = false, want true")
	}
	if got := Number(6.25).GetNumber(); got != 6.25 {
		t.Fatalf("GetNumber() = %v, want 6.25", got)
	}
	if got := Int(-7).GetNumber(); got != -7 {
		t.Fatalf("GetNumber() = %v, want -7", got)
	}
}

func TestGetAccessorFaultsOnWrongKind(t *testing.T) {
	defer func() {
		f, ok := errors.AsFault(recover())
		if !ok {
			t.Fatalf("expected a fault panic")
		}
		if f.Kind != errors.KindWrongKind {
			t.Fatalf("fault kind = %v, want %v", f.Kind, errors.KindWrongKind)
		}
	}()
	Number(1).GetBoolean()
}

func TestGetStringFaultsOnScalar(t *testing.T) {
	defer func() {
		if _, ok := errors.AsFault(recover()); !ok {
			t.Fatalf("expected a fault panic")
		}
	}()
	v := Boolean(true)
	v.GetString(nil)
}

func TestAsAccessorsReturnCatchableErrors(t *testing.T) {
	v := Number(4)
	if _, err := v.AsString(nil); err == nil {
		t.Fatalf("AsString on a number should fail")
	} else {
		be, ok := err.(*errors.Error)
		if !ok {
			t.Fatalf("error type = %T, want *errors.Error", err)
		}
		if be.Kind != errors.KindWrongKind {
			t.Fatalf("error kind = %v, want %v", be.Kind, errors.KindWrongKind)
		}
		if be.Expected != "string" || be.Actual != "number" {
			t.Fatalf("expected/actual = %q/%q", be.Expected, be.Actual)
		}
	}
	if _, err := v.AsObject(nil); err == nil {
		t.Fatalf("AsObject on a number should fail")
	}
	if _, err := v.AsSymbol(nil); err == nil {
		t.Fatalf("AsSymbol on a number should fail")
	}
}

func TestAsNumberOnNumberSkipsEngine(t *testing.T) {
	// A nil context would crash on any adapter call; the fast path must
	// not need one.
	v := Number(12.5)
	got, err := v.AsNumber(nil)
	if err != nil {
		t.Fatalf("AsNumber: %v", err)
	}
	if got != 12.5 {
		t.Fatalf("AsNumber = %v, want 12.5", got)
	}
}

func TestScalarStrictEquals(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"undefined == undefined", Undefined(), Undefined(), true},
		{"null == null", Null(), Null(), true},
		{"undefined != null", Undefined(), Null(), false},
		{"true == true", Boolean(true), Boolean(true), true},
		{"true != false", Boolean(true), Boolean(false), false},
		{"1 == 1", Number(1), Number(1), true},
		{"1 != 2", Number(1), Number(2), false},
		{"number != boolean", Number(1), Boolean(true), false},
		{"NaN != NaN", Number(math.NaN()), Number(math.NaN()), false},
		{"-0 == 0", Number(math.Copysign(0, -1)), Number(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StrictEquals(nil, tt.a, tt.b); got != tt.want {
				t.Fatalf("StrictEquals = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScalarReleaseIsNoOp(t *testing.T) {
	v := Number(9)
	v.Release(nil)
	v.Release(nil)
	if !v.Live() {
		t.Fatalf("scalar must stay live through release")
	}
	if got := v.GetNumber(); got != 9 {
		t.Fatalf("GetNumber after release = %v, want 9", got)
	}
}

func TestScalarClone(t *testing.T) {
	v := Boolean(true)
	c := v.Clone(nil)
	if !c.GetBoolean() {
		t.Fatalf("clone lost its payload")
	}
	if c.Kind() != KindBoolean {
		t.Fatalf("clone kind = %v", c.Kind())
	}
}

func TestToValueScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBoolean},
		{"int", int(3), KindNumber},
		{"int8", int8(3), KindNumber},
		{"int16", int16(3), KindNumber},
		{"int32", int32(3), KindNumber},
		{"int64", int64(3), KindNumber},
		{"uint", uint(3), KindNumber},
		{"uint8", uint8(3), KindNumber},
		{"uint16", uint16(3), KindNumber},
		{"uint32", uint32(3), KindNumber},
		{"uint64", uint64(3), KindNumber},
		{"float32", float32(1.5), KindNumber},
		{"float64", float64(1.5), KindNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := ToValue(nil, tt.in)
			if v.Kind() != tt.kind {
				t.Fatalf("ToValue(%v).Kind() = %v, want %v", tt.in, v.Kind(), tt.kind)
			}
		})
	}
}

func TestToValueFaultsOnUnsupportedType(t *testing.T) {
	defer func() {
		f, ok := errors.AsFault(recover())
		if !ok {
			t.Fatalf("expected a fault panic")
		}
		if f.Kind != errors.KindTypeMismatch {
			t.Fatalf("fault kind = %v, want %v", f.Kind, errors.KindTypeMismatch)
		}
	}()
	ToValue(nil, struct{ X int }{})
}

func TestKindString(t *testing.T) {
	names := map[Kind]string{
		KindUndefined: "undefined",
		KindNull:      "null",
		KindBoolean:   "boolean",
		KindNumber:    "number",
		KindSymbol:    "symbol",
		KindString:    "string",
		KindObject:    "object",
	}
	for k, want := range names {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
	if got := Kind(200).String(); got != "invalid kind" {
		t.Fatalf("invalid kind renders as %q", got)
	}
}
