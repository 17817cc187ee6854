package model_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/nhle/docket/internal/model"
)

func TestProject_Archived(t *testing.T) {
	p := model.Project{ID: 1, Name: "Work"}
	if p.IsArchived() || !p.IsActive() {
		t.Fatalf("expected new project to be active")
	}

	now := time.Now()
	p.ArchivedAt = &now
	if !p.IsArchived() || p.IsActive() {
		t.Fatalf("expected project with archived_at to be archived")
	}
}

func TestTodo_Completion(t *testing.T) {
	todo := model.Todo{ID: 1, Description: "A", Position: 3}
	if todo.IsCompleted() || !todo.IsActive() || !todo.CanReorder() {
		t.Fatalf("expected open todo to be active and reorderable")
	}
	if got := todo.CompletionStatus(); got != "Pending" {
		t.Errorf("CompletionStatus() = %q, want Pending", got)
	}

	done := time.Date(2025, 3, 4, 5, 6, 0, 0, time.Local)
	todo.CompletedAt = &done
	if !todo.IsCompleted() || todo.IsActive() || todo.CanReorder() {
		t.Fatalf("expected completed todo to be inactive")
	}
	if got := todo.CompletionStatus(); got != "2025-03-04 05:06" {
		t.Errorf("CompletionStatus() = %q", got)
	}
}

func TestProjectWithStats_JSONFlattens(t *testing.T) {
	p := model.ProjectWithStats{
		Project:        model.Project{ID: 7, Name: "Home"},
		TotalTodos:     5,
		CompletedTodos: 2,
	}
	if got := p.ActiveTodos(); got != 3 {
		t.Errorf("ActiveTodos() = %d, want 3", got)
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, want := range []string{`"id":7`, `"name":"Home"`, `"total_todos":5`, `"completed_todos":2`} {
		if !strings.Contains(s, want) {
			t.Errorf("json %s missing %s", s, want)
		}
	}
	if strings.Contains(s, "archived_at") {
		t.Errorf("json %s should omit nil archived_at", s)
	}
}
