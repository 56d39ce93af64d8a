package editor

import "testing"

func TestGetPathNested(t *testing.T) {
	tree := map[string]any{"title": map[string]any{"it": "Gatto"}}
	v, ok := GetPath(tree, "title.it")
	if !ok || v != "Gatto" {
		t.Fatalf("GetPath = %v, %v", v, ok)
	}
	if _, ok := GetPath(tree, "title.en"); ok {
		t.Fatal("missing leaf reported present")
	}
	if _, ok := GetPath(tree, "title.it.x"); ok {
		t.Fatal("path through a string reported present")
	}
}

func TestSetPathCreatesAndReplacesContainers(t *testing.T) {
	tree := map[string]any{"title": "flat"}
	SetPath(tree, "title.it", "Gatto")
	SetPath(tree, "a.b.c", int64(1))

	if v, _ := GetPath(tree, "title.it"); v != "Gatto" {
		t.Fatalf("title.it = %v", v)
	}
	if v, _ := GetPath(tree, "a.b.c"); v != int64(1) {
		t.Fatalf("a.b.c = %v", v)
	}
}
