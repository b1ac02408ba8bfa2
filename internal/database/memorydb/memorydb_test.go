package memorydb

import (
	"testing"

	"github.com/Faultbox/universed/internal/database"
)

func TestCitizenAddAndLookup(t *testing.T) {
	db := New()
	if err := db.CitizenAdd(database.CitizenRecord{CitizenID: 1, Name: "Bob Smith"}); err != nil {
		t.Fatalf("CitizenAdd: %v", err)
	}

	byID, ok := db.CitizenByNumber(1)
	if !ok || byID.Name != "Bob Smith" {
		t.Fatalf("CitizenByNumber = %+v, %v", byID, ok)
	}
	byName, ok := db.CitizenByName("Bob Smith")
	if !ok || byName.CitizenID != 1 {
		t.Fatalf("CitizenByName = %+v, %v", byName, ok)
	}
}

func TestCitizenAddDuplicateNameRejected(t *testing.T) {
	db := New()
	if err := db.CitizenAdd(database.CitizenRecord{CitizenID: 1, Name: "Bob"}); err != nil {
		t.Fatalf("CitizenAdd: %v", err)
	}
	if err := db.CitizenAdd(database.CitizenRecord{CitizenID: 2, Name: "Bob"}); err == nil {
		t.Fatal("expected error adding a citizen with a name already in use")
	}
}

func TestCitizenNextPrev(t *testing.T) {
	db := New()
	for _, id := range []uint32{5, 10, 20} {
		if err := db.CitizenAdd(database.CitizenRecord{CitizenID: id, Name: fmtName(id)}); err != nil {
			t.Fatalf("CitizenAdd(%d): %v", id, err)
		}
	}

	next, ok := db.CitizenNext(5)
	if !ok || next.CitizenID != 10 {
		t.Fatalf("CitizenNext(5) = %+v, %v, want 10", next, ok)
	}
	if _, ok := db.CitizenNext(20); ok {
		t.Error("CitizenNext(20) should have no successor")
	}

	prev, ok := db.CitizenPrev(10)
	if !ok || prev.CitizenID != 5 {
		t.Fatalf("CitizenPrev(10) = %+v, %v, want 5", prev, ok)
	}
	if _, ok := db.CitizenPrev(5); ok {
		t.Error("CitizenPrev(5) should have no predecessor")
	}
}

func TestCitizenChangeRenames(t *testing.T) {
	db := New()
	_ = db.CitizenAdd(database.CitizenRecord{CitizenID: 1, Name: "Old Name"})

	if err := db.CitizenChange(database.CitizenRecord{CitizenID: 1, Name: "New Name"}); err != nil {
		t.Fatalf("CitizenChange: %v", err)
	}
	if _, ok := db.CitizenByName("Old Name"); ok {
		t.Error("old name should no longer resolve")
	}
	if _, ok := db.CitizenByName("New Name"); !ok {
		t.Error("new name should resolve")
	}
}

func TestCitizenDeleteClearsContacts(t *testing.T) {
	db := New()
	_ = db.CitizenAdd(database.CitizenRecord{CitizenID: 1, Name: "Bob"})
	db.AddContact(database.ContactRecord{OwnerCitizenID: 1, ContactCitizenID: 2, Name: "Alice"})

	if err := db.CitizenDelete(1); err != nil {
		t.Fatalf("CitizenDelete: %v", err)
	}
	if _, ok := db.CitizenByNumber(1); ok {
		t.Error("expected citizen to be gone")
	}
	if contacts := db.ContactsOf(1); len(contacts) != 0 {
		t.Errorf("expected contacts cleared, got %v", contacts)
	}
}

func fmtName(id uint32) string {
	return "citizen-" + string(rune('A'+id%26))
}
