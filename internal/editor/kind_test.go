package editor

import (
	"reflect"
	"testing"
)

func TestNumberSerialize(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{"", int64(0)},
		{"  ", int64(0)},
		{"abc", int64(0)},
		{"12", int64(12)},
		{"12.0", int64(12)},
		{"3.5", 3.5},
		{nil, int64(0)},
	}
	for _, c := range cases {
		if got := (Number{}).serialize(c.in); got != c.want {
			t.Errorf("serialize(%#v) = %#v, want %#v", c.in, got, c.want)
		}
	}
}

func TestNumberInitialKeepsZeroApartFromAbsent(t *testing.T) {
	if got := (Number{}).initial(nil, false); got != "" {
		t.Fatalf("absent = %#v", got)
	}
	if got := (Number{}).initial(int64(0), true); got != "0" {
		t.Fatalf("zero = %#v", got)
	}
	if got := (Number{}).initial(2.5, true); got != "2.5" {
		t.Fatalf("float = %#v", got)
	}
}

func TestListSerializeDropsBlankLines(t *testing.T) {
	got := (List{}).serialize("a\n\n b \r\n\nc")
	want := []any{"a", " b ", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("serialize = %#v, want %#v", got, want)
	}
	if got := (List{}).initial([]any{"a", "b"}, true); got != "a\nb" {
		t.Fatalf("initial = %#v", got)
	}
}

func TestMultiSelectMax(t *testing.T) {
	k := MultiSelect{Options: []string{"A", "B", "C"}, Max: 2}
	if _, ok := k.accept([]string{"A", "B"}); !ok {
		t.Fatal("two options rejected")
	}
	if _, ok := k.accept([]string{"A", "B", "C"}); ok {
		t.Fatal("three options accepted with max 2")
	}
	if got := k.toggled([]string{"A", "B"}, "A"); !reflect.DeepEqual(got, []string{"B"}) {
		t.Fatalf("toggle off = %v", got)
	}
}

func TestBooleanSerialize(t *testing.T) {
	for in, want := range map[any]bool{true: true, false: false, "": false, "on": true, "true": true, "no": false} {
		if got := (Boolean{}).serialize(in); got != want {
			t.Errorf("serialize(%#v) = %v", in, got)
		}
	}
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("multi-select", []string{"x"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ms, ok := k.(MultiSelect); !ok || ms.Max != 1 {
		t.Fatalf("kind = %#v", k)
	}
	if _, err := ParseKind("colour", nil, 0); err == nil {
		t.Fatal("unknown type accepted")
	}
}
