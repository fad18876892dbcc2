package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/scriptorium/internal/apperror"
	"github.com/sakif/scriptorium/internal/model"
)

func TestDashboard(t *testing.T) {
	users := newMockUserRepo()
	templates := newMockTemplateRepo()
	svc := NewUserService(users, templates, testLogger())

	owner := &model.User{Email: "dash@example.com", FirstName: "Dash", LastName: "Board"}
	if err := users.CreateUser(context.Background(), owner); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	templates.addTemplate(t, owner.ID, "First", nil)
	templates.addTemplate(t, owner.ID, "Second", nil)
	templates.addTemplate(t, "someone-else", "Other", nil)

	dash, err := svc.Dashboard(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	if dash.Name != "Dash Board" {
		t.Errorf("Name = %q, want %q", dash.Name, "Dash Board")
	}
	if dash.Email != "dash@example.com" {
		t.Errorf("Email = %q, want %q", dash.Email, "dash@example.com")
	}
	if len(dash.CreatedProjects) != 2 {
		t.Errorf("got %d projects, want 2", len(dash.CreatedProjects))
	}
}

func TestDashboard_UnknownUser(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), newMockTemplateRepo(), testLogger())

	_, err := svc.Dashboard(context.Background(), "missing")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Dashboard() error = %v, want ErrNotFound", err)
	}
}

func TestDashboard_BlankID(t *testing.T) {
	svc := NewUserService(newMockUserRepo(), newMockTemplateRepo(), testLogger())

	_, err := svc.Dashboard(context.Background(), "   ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("Dashboard() error = %v, want ErrValidation", err)
	}
}
