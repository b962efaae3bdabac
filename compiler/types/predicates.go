package types

// IsOnly reports whether t is known and every member of t satisfies f.
func IsOnly(t *Type, f func(*Type) bool) bool {
	if t == nil || t.Kind == Any {
		return false
	}
	for _, m := range Members(t) {
		if !f(m) {
			return false
		}
	}
	return true
}

// Has reports whether some member of t satisfies f. An unknown type
// has every member.
func Has(t *Type, f func(*Type) bool) bool {
	if t == nil || t.Kind == Any {
		return true
	}
	for _, m := range Members(t) {
		if f(m) {
			return true
		}
	}
	return false
}

func kindIs(k Kind) func(*Type) bool {
	return func(t *Type) bool { return t.Kind == k }
}

var (
	isUndefined = kindIs(Undefined)
	isNull      = kindIs(Null)
	isBoolean   = kindIs(Boolean)
	isNumber    = kindIs(Number)
	isString    = kindIs(String)
	isBuffer    = kindIs(Buffer)
	isArray     = kindIs(Array)
	isTuple     = kindIs(Tuple)
	isClass     = kindIs(Class)
)

func IsOnlyUndefined(t *Type) bool { return IsOnly(t, isUndefined) }
func HasUndefined(t *Type) bool    { return Has(t, isUndefined) }
func IsOnlyNull(t *Type) bool      { return IsOnly(t, isNull) }
func IsOnlyBoolean(t *Type) bool   { return IsOnly(t, isBoolean) }
func HasBoolean(t *Type) bool      { return Has(t, isBoolean) }
func IsOnlyNumber(t *Type) bool    { return IsOnly(t, isNumber) }
func HasNumber(t *Type) bool       { return Has(t, isNumber) }
func IsOnlyString(t *Type) bool    { return IsOnly(t, isString) }
func HasString(t *Type) bool       { return Has(t, isString) }
func IsOnlyBuffer(t *Type) bool    { return IsOnly(t, isBuffer) }
func HasBuffer(t *Type) bool       { return Has(t, isBuffer) }
func IsOnlyArray(t *Type) bool     { return IsOnly(t, isArray) }
func HasArray(t *Type) bool        { return Has(t, isArray) }
func IsOnlyTuple(t *Type) bool     { return IsOnly(t, isTuple) }
func HasTuple(t *Type) bool        { return Has(t, isTuple) }
func IsOnlyClass(t *Type) bool     { return IsOnly(t, isClass) }

// IsOnlySliceable reports whether every member of t is a string or a
// buffer.
func IsOnlySliceable(t *Type) bool {
	return IsOnly(t, func(m *Type) bool { return isString(m) || isBuffer(m) })
}

// IsOnlySized reports whether every member of t has a length.
func IsOnlySized(t *Type) bool {
	return IsOnly(t, func(m *Type) bool { return isString(m) || isBuffer(m) || isArray(m) })
}

// IsVoid reports whether t is the void result type.
func IsVoid(t *Type) bool { return t != nil && t.Kind == Void }

// IsUnion reports whether t has more than one member.
func IsUnion(t *Type) bool { return t != nil && t.Kind == Union }

// IsOnlyBrand reports whether t is only the Buffer brand name.
func IsOnlyBrand(t *Type, name string) bool {
	return IsOnly(t, func(m *Type) bool { return m.Kind == Buffer && m.Name == name })
}

// IsOnlyInterface reports whether t is only the blockchain
// interface name.
func IsOnlyInterface(t *Type, name string) bool {
	return IsOnly(t, func(m *Type) bool { return m.Kind == Interface && m.Name == name })
}

// HasInterface reports whether some member of t is the blockchain
// interface name.
func HasInterface(t *Type, name string) bool {
	return Has(t, func(m *Type) bool { return m.Kind == Interface && m.Name == name })
}

// IsOnlyLib reports whether t is only the library type name.
func IsOnlyLib(t *Type, name string) bool {
	return IsOnly(t, func(m *Type) bool { return m.Kind == Lib && m.Name == name })
}

// ArrayElem returns the element type of the array members of t.
func ArrayElem(t *Type) *Type {
	var elems []*Type
	for _, m := range Members(t) {
		if m.Kind == Array {
			elems = append(elems, m.Elem)
		}
	}
	if len(elems) == 0 {
		return AnyType
	}
	return NewUnion(elems...)
}

// Category is the runtime class of a value as far as method
// dispatch is concerned.
type Category int

const (
	CatUndefined Category = iota
	CatNull
	CatBoolean
	CatString
	CatSymbol
	CatNumber
	CatObject
	CatBuffer
	CatArray
)

var categoryNames = [...]string{
	CatUndefined: "undefined",
	CatNull:      "null",
	CatBoolean:   "boolean",
	CatString:    "string",
	CatSymbol:    "symbol",
	CatNumber:    "number",
	CatObject:    "object",
	CatBuffer:    "buffer",
	CatArray:     "array",
}

func (c Category) String() string { return categoryNames[c] }

// CategoryOf returns the dispatch category of a non-union type.
func CategoryOf(t *Type) Category {
	switch t.Kind {
	case Undefined, Void:
		return CatUndefined
	case Null:
		return CatNull
	case Boolean:
		return CatBoolean
	case String:
		return CatString
	case ESSymbol:
		return CatSymbol
	case Number:
		return CatNumber
	case Buffer:
		return CatBuffer
	case Array, Tuple:
		return CatArray
	}
	return CatObject
}

// Categories returns the distinct categories of the members of t in
// category order. An unknown type yields every category.
func Categories(t *Type) []Category {
	var seen [len(categoryNames)]bool
	if t == nil || t.Kind == Any {
		for i := range seen {
			seen[i] = true
		}
	} else {
		for _, m := range Members(t) {
			seen[CategoryOf(m)] = true
		}
	}
	var res []Category
	for i, ok := range seen {
		if ok {
			res = append(res, Category(i))
		}
	}
	return res
}
