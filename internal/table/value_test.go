package table

import (
	"testing"
	"time"
)

func TestCompareOrdersNullFirst(t *testing.T) {
	if Compare(Null(), Int(-5)) >= 0 {
		t.Fatalf("null should sort before ints")
	}
	if Compare(Text("b"), Text("a")) <= 0 {
		t.Fatalf("text compare reversed")
	}
	if Compare(Null(), Null()) != 0 {
		t.Fatalf("two nulls should compare equal")
	}
	if Compare(Duration(10, UnitSeasons), Duration(5, UnitSeasons)) <= 0 {
		t.Fatalf("duration magnitudes reversed")
	}
}

func TestListSemantics(t *testing.T) {
	if !List(nil).IsNull() {
		t.Fatalf("empty list should be null")
	}
	src := []string{"a", "b"}
	v := List(src)
	src[0] = "z"
	if !v.Has("a") || v.Has("z") {
		t.Fatalf("List must copy its input: %v", v.List())
	}
	if v.Len() != 2 || v.String() != "a, b" {
		t.Fatalf("Len=%d String=%q", v.Len(), v.String())
	}
}

func TestKeyOfDistinguishesKinds(t *testing.T) {
	a := KeyOf([]Value{Text("1")})
	b := KeyOf([]Value{Int(1)})
	if a == b {
		t.Fatalf("text and int keys collide")
	}
	if KeyOf([]Value{Null()}) == KeyOf([]Value{Text("")}) {
		t.Fatalf("null and empty text collide")
	}
	if KeyOf([]Value{Text("a"), Text("b")}) == KeyOf([]Value{Text("a, b")}) {
		t.Fatalf("tuple and joined text collide")
	}
}

func TestDateTruncatesToDay(t *testing.T) {
	v := Date(time.Date(2020, 1, 2, 15, 4, 5, 0, time.UTC))
	if v.String() != "2020-01-02" || !v.Equal(Date(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC))) {
		t.Fatalf("Date = %v", v)
	}
}

func TestTableRowsReiterable(t *testing.T) {
	s := MustSchema(Column{Name: "n", Kind: KindInt})
	tbl, err := New(s, [][]Value{{Int(1)}, {Int(2)}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for pass := 0; pass < 2; pass++ {
		var sum int64
		for r := range tbl.Rows() {
			sum += r.Get("n").Int()
		}
		if sum != 3 {
			t.Fatalf("pass %d: sum = %d, want 3", pass, sum)
		}
	}
	if _, err := New(s, [][]Value{{Int(1), Int(2)}}); err == nil {
		t.Fatalf("expected width error")
	}
	if _, err := NewSchema(Column{Name: "a"}, Column{Name: "a"}); err == nil {
		t.Fatalf("expected duplicate column error")
	}
}
