package domain

import (
	"reflect"
	"testing"
)

func TestDiffOwners(t *testing.T) {
	before := NewOwnerIndex()
	before.Add("A", "i0")
	before.Add("B", "i1")
	before.Add("A", "i2")
	before.Add("C", "i3")

	after := NewOwnerIndex()
	after.Add("A", "i0")
	after.Add("B", "i2") // moved A -> B
	after.Add("B", "i1")
	after.Add("D", "i4") // new

	want := []OwnershipChange{
		{Item: "i2", From: "A", To: "B"},
		{Item: "i4", From: "", To: "D"},
		{Item: "i3", From: "C", To: ""},
	}

	got := DiffOwners(&before, &after)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("DiffOwners() = %+v, want %+v", got, want)
	}
}

func TestDiffOwners_Identical(t *testing.T) {
	a := NewOwnerIndex()
	a.Add("A", "i0")
	a.Add("B", "i1")
	b := a.Clone()

	if got := DiffOwners(&a, &b); len(got) != 0 {
		t.Errorf("DiffOwners(identical) = %+v, want none", got)
	}
}

func TestDiffOwners_ZeroValues(t *testing.T) {
	var empty OwnerIndex
	full := NewOwnerIndex()
	full.Add("A", "i0")

	if got := DiffOwners(&empty, &full); len(got) != 1 || got[0].From != "" {
		t.Errorf("DiffOwners(empty, full) = %+v", got)
	}
	if got := DiffOwners(&full, &empty); len(got) != 1 || got[0].To != "" {
		t.Errorf("DiffOwners(full, empty) = %+v", got)
	}
}
