package editor

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"testing"

	"illustraBack/internal/models"
	"illustraBack/internal/repositories"
)

type failingRepo struct {
	repositories.DocumentRepository
}

func (failingRepo) List(context.Context, string, repositories.ListOptions) ([]models.Record, error) {
	return nil, errors.New("unavailable")
}

func testSchema() Schema {
	return Schema{
		Collection: "spille",
		Fields: []Field{
			{Path: "title.it", Label: "Titolo", Kind: Text{}, ShowInTable: true},
			{Path: "price", Label: "Prezzo", Kind: Number{}},
			{Path: "tags", Label: "Tag", Kind: MultiSelect{Options: []string{"A", "B", "C"}, Max: 2}},
			{Path: "features", Label: "Caratteristiche", Kind: List{}},
			{Path: "available", Label: "Disponibile", Kind: Boolean{}},
		},
	}
}

func always(context.Context, string) bool { return true }

func TestSaveAndReopenRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryRepository()
	rec := &Recorder{}
	e := New(testSchema(), repo, rec)

	e.OpenEditor(nil)
	e.SetField("title.it", "Luna")
	e.SetField("price", "7.5")
	e.SetField("features", "smalto\nmetallo")
	e.Toggle("tags", "A")
	e.SetField("available", true)
	if err := e.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(e.Items) != 1 {
		t.Fatalf("items = %d", len(e.Items))
	}
	stored := e.Items[0]
	if v, _ := GetPath(stored, "title.it"); v != "Luna" {
		t.Fatalf("title.it = %v", v)
	}
	if stored["price"] != 7.5 {
		t.Fatalf("price = %#v", stored["price"])
	}

	f := e.OpenEditor(stored)
	if !f.Editing() || f.EditingID() != stored.ID() {
		t.Fatal("form not editing stored record")
	}
	if f.Value("price") != "7.5" || f.Value("features") != "smalto\nmetallo" {
		t.Fatalf("form values = %v", f.Values())
	}
	if !reflect.DeepEqual(f.Value("tags"), []string{"A"}) {
		t.Fatalf("tags = %#v", f.Value("tags"))
	}
	if len(rec.Notifications) != 1 || rec.Notifications[0].Description != "Elemento creato" {
		t.Fatalf("notifications = %+v", rec.Notifications)
	}
}

func TestBlankNumberSavesZero(t *testing.T) {
	ctx := context.Background()
	e := New(testSchema(), repositories.NewMemoryRepository(), nil)
	e.OpenEditor(nil)
	e.SetField("title.it", "x")
	if err := e.Save(ctx); err != nil {
		t.Fatal(err)
	}
	if got := e.Items[0]["price"]; got != int64(0) {
		t.Fatalf("price = %#v", got)
	}
	if got := e.Items[0]["available"]; got != false {
		t.Fatalf("available = %#v", got)
	}
}

func TestThirdOptionRejectedAtMaxTwo(t *testing.T) {
	e := New(testSchema(), repositories.NewMemoryRepository(), nil)
	e.OpenEditor(nil)
	e.Toggle("tags", "A")
	e.Toggle("tags", "B")
	if e.Toggle("tags", "C") {
		t.Fatal("third option accepted")
	}
	if !reflect.DeepEqual(e.Form.Value("tags"), []string{"A", "B"}) {
		t.Fatalf("tags = %#v", e.Form.Value("tags"))
	}
}

func TestUpdateNotifies(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryRepository()
	id, _ := repo.Create(ctx, "spille", map[string]any{"title": map[string]any{"it": "a"}})
	rec := &Recorder{}
	e := New(testSchema(), repo, rec)
	e.List(ctx)

	e.OpenEditor(e.Items[0])
	e.SetField("title.it", "b")
	if err := e.Save(ctx); err != nil {
		t.Fatal(err)
	}
	got, _ := repo.Get(ctx, "spille", id)
	if v, _ := GetPath(got, "title.it"); v != "b" {
		t.Fatalf("title.it = %v", v)
	}
	if e.Form.Open() {
		t.Fatal("form still open after save")
	}
	if rec.Notifications[0].Description != "Elemento aggiornato" {
		t.Fatalf("notifications = %+v", rec.Notifications)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryRepository()
	id, _ := repo.Create(ctx, "spille", map[string]any{"price": int64(1)})
	e := New(testSchema(), repo, nil)

	if err := e.Delete(ctx, id, nil); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("Delete without confirm = %v", err)
	}
	if err := e.Delete(ctx, id, func(context.Context, string) bool { return false }); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("Delete declined = %v", err)
	}
	if err := e.Delete(ctx, id, always); err != nil {
		t.Fatal(err)
	}
	if len(e.Items) != 0 {
		t.Fatalf("items = %d", len(e.Items))
	}
	if _, err := repo.Get(ctx, "spille", id); !errors.Is(err, models.ErrRecordNotFound) {
		t.Fatalf("Get after delete = %v", err)
	}
}

func TestInsertIllustrationShiftsOrders(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryRepository()
	for i := int64(1); i <= 5; i++ {
		repo.Create(ctx, models.CollectionIllustrations, map[string]any{models.OrderAttribute: i})
	}
	schema, _ := must(NewRegistry(nil)).Schema(models.CollectionIllustrations)
	e := New(schema, repo, nil)

	e.OpenEditor(nil)
	e.SetField(models.OrderAttribute, "3")
	if err := e.Save(ctx); err != nil {
		t.Fatal(err)
	}

	var orders []int
	for _, it := range e.Items {
		n, _ := models.AsNumber(it[models.OrderAttribute])
		orders = append(orders, int(n))
	}
	sort.Ints(orders)
	if !reflect.DeepEqual(orders, []int{1, 2, 3, 4, 5, 6}) {
		t.Fatalf("orders = %v", orders)
	}
}

func TestListEmptyCollection(t *testing.T) {
	e := New(testSchema(), repositories.NewMemoryRepository(), nil)
	if items := e.List(context.Background()); items == nil || len(items) != 0 {
		t.Fatalf("items = %#v", items)
	}
}

func TestListFailureNotifiesOnce(t *testing.T) {
	rec := &Recorder{}
	e := New(testSchema(), failingRepo{}, rec)
	items := e.List(context.Background())
	if items == nil || len(items) != 0 {
		t.Fatalf("items = %#v", items)
	}
	if len(rec.Notifications) != 1 || rec.Notifications[0].Variant != models.VariantDestructive {
		t.Fatalf("notifications = %+v", rec.Notifications)
	}
}

func TestSaveWithoutFormFails(t *testing.T) {
	e := New(testSchema(), repositories.NewMemoryRepository(), nil)
	if err := e.Save(context.Background()); !errors.Is(err, ErrNoOpenForm) {
		t.Fatalf("Save = %v", err)
	}
}

func TestRestoreFormKeepsEchoedSelection(t *testing.T) {
	e := New(testSchema(), repositories.NewMemoryRepository(), nil)
	f := e.RestoreForm("abc", map[string]any{"tags": []any{"A", "B", "C"}, "title.it": "t"})
	if f.EditingID() != "abc" || f.Value("title.it") != "t" {
		t.Fatalf("form = %+v", f.Values())
	}
	if !reflect.DeepEqual(f.Value("tags"), []string{"A", "B", "C"}) {
		t.Fatalf("tags = %#v", f.Value("tags"))
	}
	if e.Toggle("tags", "D") {
		t.Fatal("toggle past max accepted")
	}
	if !e.Toggle("tags", "C") || !reflect.DeepEqual(f.Value("tags"), []string{"A", "B"}) {
		t.Fatalf("tags after removing C = %#v", f.Value("tags"))
	}
}

func TestUneditedSaveThroughJSONEchoKeepsRecord(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryRepository()
	id, err := repo.Create(ctx, "spille", map[string]any{
		"title":     map[string]any{"it": "Luna"},
		"price":     int64(8),
		"tags":      []any{"A", "B", "C"},
		"features":  []any{"smalto"},
		"available": true,
	})
	if err != nil {
		t.Fatal(err)
	}
	stored, err := repo.Get(ctx, "spille", id)
	if err != nil {
		t.Fatal(err)
	}

	e := New(testSchema(), repo, nil)
	body, err := json.Marshal(e.OpenEditor(stored).Values())
	if err != nil {
		t.Fatal(err)
	}
	var echoed map[string]any
	if err := json.Unmarshal(body, &echoed); err != nil {
		t.Fatal(err)
	}

	e.RestoreForm(id, echoed)
	if err := e.Save(ctx); err != nil {
		t.Fatalf("Save: %v", err)
	}
	after, err := repo.Get(ctx, "spille", id)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(after["tags"], []any{"A", "B", "C"}) {
		t.Fatalf("tags after unedited save = %#v", after["tags"])
	}
	if after["price"] != int64(8) || after["available"] != true {
		t.Fatalf("record after unedited save = %#v", after)
	}
	if v, _ := GetPath(after, "title.it"); v != "Luna" {
		t.Fatalf("title.it = %v", v)
	}
}

func TestRowsProjectColumns(t *testing.T) {
	e := New(testSchema(), nil, nil)
	e.Items = []models.Record{{models.IDKey: "1", "title": map[string]any{"it": "Luna"}}}
	rows := e.Rows()
	if len(rows) != 1 || rows[0].ID != "1" || !reflect.DeepEqual(rows[0].Cells, []string{"Luna"}) {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestRegistryOverrides(t *testing.T) {
	r := must(NewRegistry(nil))
	if len(r.All()) != 6 {
		t.Fatalf("schemas = %d", len(r.All()))
	}
	if _, err := r.Schema("nope"); !errors.Is(err, models.ErrUnknownCollection) {
		t.Fatalf("Schema(nope) = %v", err)
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
