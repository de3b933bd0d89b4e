package models

import "testing"

func TestUserValidate(t *testing.T) {
	valid := User{
		ID:    "0b7aa19a-2b8f-4b2f-9c11-0b1f6dd1b9a0",
		Email: "nian@example.com",
		Name:  "Nian",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid user, got %v", err)
	}

	missingID := valid
	missingID.ID = ""
	if err := missingID.Validate(); err == nil {
		t.Fatal("expected error for missing id")
	}

	badEmail := valid
	badEmail.Email = "not-an-email"
	if err := badEmail.Validate(); err == nil {
		t.Fatal("expected error for invalid email")
	}
}
