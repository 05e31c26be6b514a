package ocproc

import (
	"encoding/json"
	"testing"
)

func TestFromAnyJSONNumber(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Value
	}{
		{"integral number stays int", json.Number("42"), Int(42)},
		{"fractional number becomes float", json.Number("42.5"), Float(42.5)},
		{"exponent form becomes float", json.Number("1e3"), Float(1000)},
		{"large int survives", json.Number("9007199254740993"), Int(9007199254740993)},
		{"plain types pass through", int(7), Int(7)},
		{"float32 widens", float32(1.5), Float(1.5)},
		{"nil is null", nil, Null()},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromAny(tc.in)
			if err != nil {
				t.Fatalf("FromAny(%v): %v", tc.in, err)
			}
			if got.Kind() != tc.want.Kind() || !got.Equal(tc.want) {
				t.Fatalf("FromAny(%v) = %v (%v), want %v (%v)", tc.in, got, got.Kind(), tc.want, tc.want.Kind())
			}
		})
	}
}

func TestFromAnyUnsupported(t *testing.T) {
	if _, err := FromAny(struct{}{}); err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestValueEqualCrossNumeric(t *testing.T) {
	if !Int(4).Equal(Float(4)) {
		t.Fatal("int 4 should equal float 4")
	}
	if Int(4).Equal(Float(4.5)) {
		t.Fatal("int 4 should not equal float 4.5")
	}
	if Int(1).Equal(Bool(true)) {
		t.Fatal("numeric and bool kinds never compare equal")
	}
}

func TestValueCoercions(t *testing.T) {
	if i, ok := Float(3.0).AsInt(); !ok || i != 3 {
		t.Fatalf("AsInt(3.0) = %v, %v", i, ok)
	}
	if _, ok := Float(3.5).AsInt(); ok {
		t.Fatal("AsInt(3.5) should fail")
	}
	if b, ok := String("true").AsBool(); !ok || !b {
		t.Fatalf("AsBool(\"true\") = %v, %v", b, ok)
	}
	if f, ok := String("2.5").AsFloat(); !ok || f != 2.5 {
		t.Fatalf("AsFloat(\"2.5\") = %v, %v", f, ok)
	}
	if _, ok := Null().AsString(); ok {
		t.Fatal("null has no string form")
	}
}
