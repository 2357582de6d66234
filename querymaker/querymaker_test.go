package querymaker

import (
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/yymao/easyquery"
)

func peopleTable() []easyquery.Record {
	return []easyquery.Record{
		{"name": "alice", "age": 31, "score": 1.5},
		{"name": "bob", "age": 24, "score": 2.5},
		{"name": "carol", "age": 31, "score": 3.5},
		{"name": "alison", "age": 45, "score": 4.5},
	}
}

func checkMask(t *testing.T, q easyquery.Query, want []bool) {
	t.Helper()
	got, err := q.Mask(peopleTable())
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Mask = %v, want %v", got, want)
	}
}

func TestEquals(t *testing.T) {
	checkMask(t, Equals("age", 31), []bool{true, false, true, false})
	checkMask(t, Equals("name", "bob"), []bool{false, true, false, false})
	checkMask(t, Equals("score", 2.5), []bool{false, true, false, false})
	checkMask(t, Equals("score", decimal.NewFromFloat(2.5)), []bool{false, true, false, false})

	// Unrenderable values fall back to a callable comparison.
	type key struct{ a, b int }
	table := []easyquery.Record{
		{"k": key{1, 2}},
		{"k": key{3, 4}},
	}
	got, err := Equals("k", key{3, 4}).Mask(table)
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	if !reflect.DeepEqual(got, []bool{false, true}) {
		t.Fatalf("Mask = %v", got)
	}
}

func TestStringMatchers(t *testing.T) {
	checkMask(t, Contains("name", "li"), []bool{true, false, false, true})
	checkMask(t, StartsWith("name", "ali"), []bool{true, false, false, true})
	checkMask(t, EndsWith("name", "ol"), []bool{false, false, true, false})
}

func TestIn(t *testing.T) {
	checkMask(t, In("age", 24, 45), []bool{false, true, false, true})
	checkMask(t, In("name", "alice", "carol"), []bool{true, false, true, false})

	// Numeric membership crosses representations.
	checkMask(t, In("score", 2, 4.5), []bool{false, false, false, true})
	checkMask(t, In("age", 31.0), []bool{true, false, true, false})

	checkMask(t, In("age"), []bool{false, false, false, false})
}

func TestInRange(t *testing.T) {
	// Default half-open interval: low inclusive, high exclusive.
	checkMask(t, InRange("age", 24, 31), []bool{false, true, false, false})
	checkMask(t, InRange("age", 24, 31, InclusiveHigh()), []bool{true, true, true, false})
	checkMask(t, InRange("age", 24, 45, ExclusiveLow()), []bool{true, false, true, false})
	checkMask(t, InRange("score", 1.5, 3.5, ExclusiveLow(), InclusiveHigh()), []bool{false, true, true, false})
}

func TestFactoriesCompose(t *testing.T) {
	q := StartsWith("name", "ali").And(InRange("age", 30, 40)).Or(Equals("name", "bob"))
	checkMask(t, q, []bool{true, true, false, false})
}
