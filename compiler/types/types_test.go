package types

import "testing"

func TestNewUnion(t *testing.T) {
	cases := []struct {
		in   []*Type
		want string
	}{
		{[]*Type{NumberType}, "number"},
		{[]*Type{NumberType, NumberType}, "number"},
		{[]*Type{NumberType, StringType}, "number | string"},
		{[]*Type{NewUnion(NumberType, StringType), UndefinedType, StringType}, "number | string | undefined"},
		{[]*Type{NewArray(NewUnion(NumberType, BufferType))}, "(number | Buffer)[]"},
		{[]*Type{NewBrand("Address"), BufferType}, "Address | Buffer"},
	}
	for _, c := range cases {
		got := NewUnion(c.in...).String()
		if got != c.want {
			t.Errorf("NewUnion(%v) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestPredicates(t *testing.T) {
	numOrUndef := NewUnion(NumberType, UndefinedType)
	cases := []struct {
		name string
		got  bool
		want bool
	}{
		{"IsOnlyNumber(number)", IsOnlyNumber(NumberType), true},
		{"IsOnlyNumber(number|undefined)", IsOnlyNumber(numOrUndef), false},
		{"HasNumber(number|undefined)", HasNumber(numOrUndef), true},
		{"HasUndefined(number|undefined)", HasUndefined(numOrUndef), true},
		{"IsOnlyNumber(any)", IsOnlyNumber(AnyType), false},
		{"HasNumber(any)", HasNumber(AnyType), true},
		{"IsOnlyBuffer(Address)", IsOnlyBuffer(NewBrand("Address")), true},
		{"IsOnlyBrand(Buffer, Address)", IsOnlyBrand(BufferType, "Address"), false},
		{"IsOnlyArray(tuple)", IsOnlyArray(NewTuple(NumberType)), false},
		{"IsOnlyInterface", IsOnlyInterface(NewInterface("HeaderBase"), "HeaderBase"), true},
		{"HasInterface", HasInterface(NewUnion(NewInterface("BlockBase"), NewInterface("HeaderBase")), "BlockBase"), true},
		{"Without undefined", IsOnlyNumber(Without(numOrUndef, func(m *Type) bool { return m.Kind == Undefined })), true},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestCategories(t *testing.T) {
	got := Categories(NewUnion(StringType, BufferType, NumberType, NewBrand("Hash256")))
	want := []Category{CatString, CatNumber, CatBuffer}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d = %s, want %s", i, got[i], want[i])
		}
	}
	if n := len(Categories(AnyType)); n != 9 {
		t.Errorf("Categories(any) has %d entries, want 9", n)
	}
}

func TestIdentical(t *testing.T) {
	a := NewUnion(NumberType, StringType)
	b := NewUnion(StringType, NumberType)
	if !Identical(a, b) {
		t.Errorf("%s and %s not identical", a, b)
	}
	if Identical(NewArray(NumberType), NewArray(StringType)) {
		t.Error("number[] identical to string[]")
	}
	if Identical(NewBrand("Address"), BufferType) {
		t.Error("Address identical to Buffer")
	}
}

func TestSymbolKind(t *testing.T) {
	if got := SymbolType.String(); got != "symbol" {
		t.Errorf("SymbolType.String() = %s, want symbol", got)
	}
	if got := CategoryOf(SymbolType); got != CatSymbol {
		t.Errorf("CategoryOf(symbol) = %s, want symbol", got)
	}
	sym := &Symbol{Name: "x", Kind: SymConst, Type: SymbolType}
	if sym.Type.Kind != ESSymbol {
		t.Errorf("declared symbol-typed const has kind %d", sym.Type.Kind)
	}
}
