package services

import (
	"errors"
	"testing"

	"github.com/campushq/campus-records/internal/models"
	"github.com/campushq/campus-records/internal/repository"
)

func TestValidateStruct(t *testing.T) {
	valid := models.CreateUserRequest{
		Email:           "new@school.example",
		DisplayName:     "New User",
		Role:            models.RoleTeacher,
		Password:        "correct horse",
		ConfirmPassword: "correct horse",
	}
	if err := validateStruct(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mismatch := valid
	mismatch.ConfirmPassword = "battery staple"
	err := validateStruct(mismatch)
	if err == nil {
		t.Fatal("expected password mismatch to fail validation")
	}
	var verr *repository.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "ConfirmPassword" {
		t.Fatalf("unexpected field errors: %+v", verr.Fields)
	}

	missing := models.CreateUserRequest{Email: "not-an-email"}
	if err := validateStruct(missing); !repository.IsValidationError(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
