package testutil

import "testing"

func TestDeepEqual(t *testing.T) {
	type s struct {
		a int
		b string
		c []string
	}

	cases := []struct {
		a, b interface{}
		want bool
	}{
		{1, 1, true},
		{1, 2, false},
		{nil, nil, true},
		{nil, []byte{}, true},
		{nil, map[string]int{}, true},
		{nil, []byte{1}, false},
		{[]byte{1}, []byte{1}, true},
		{[]byte{1}, []byte{1, 2}, false},
		{[]byte{1}, []string{"1"}, false},
		{[3]byte{1}, [3]byte{1, 0, 0}, true},
		{s{}, s{c: []string{}}, true},
		{s{a: 1}, s{}, false},
		{&s{b: "x"}, &s{b: "x"}, true},
		{map[string][]int{"a": nil}, map[string][]int{"a": {}}, true},
		{"foo", nil, false},
	}

	for i, c := range cases {
		got := DeepEqual(c.a, c.b)
		if got != c.want {
			t.Errorf("case %d: got %v want %v", i, got, c.want)
		}
	}
}
