package models

import (
	"encoding/json"
	"testing"
)

func TestConversationAppendOrder(t *testing.T) {
	c := NewConversation()
	c.Append(RoleUser, "q1")
	c.Append(RoleAssistant, "a1")
	c.Append(RoleUser, "q2")

	if c.Len() != 3 {
		t.Fatalf("Len = %d, want 3", c.Len())
	}

	snap := c.Snapshot()
	wantRoles := []Role{RoleUser, RoleAssistant, RoleUser}
	for i, msg := range snap {
		if msg.Role != wantRoles[i] {
			t.Errorf("snap[%d].Role = %v, want %v", i, msg.Role, wantRoles[i])
		}
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	c := NewConversation()
	c.Append(RoleUser, "original")

	snap := c.Snapshot()
	snap[0].Content = "mutated"
	c.Append(RoleAssistant, "reply")

	fresh := c.Snapshot()
	if fresh[0].Content != "original" {
		t.Error("mutating a snapshot leaked into the conversation")
	}
	if len(snap) != 1 {
		t.Error("appending to the conversation changed an old snapshot")
	}
}

func TestConversationLast(t *testing.T) {
	c := NewConversation()

	if _, ok := c.Last(); ok {
		t.Error("empty conversation should have no last message")
	}

	c.Append(RoleUser, "hello")
	last, ok := c.Last()
	if !ok || last.Content != "hello" {
		t.Errorf("Last = %+v, %v", last, ok)
	}
}

func TestConversationClear(t *testing.T) {
	c := NewConversation()
	c.Append(RoleUser, "x")
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len after Clear = %d", c.Len())
	}
}

func TestMessageWireFormat(t *testing.T) {
	data, err := json.Marshal(Message{Role: RoleAssistant, Content: "hi"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	want := `{"role":"assistant","content":"hi"}`
	if string(data) != want {
		t.Errorf("wire format = %s, want %s", data, want)
	}
}

func TestModelFromName(t *testing.T) {
	t.Run("catalog hit keeps description", func(t *testing.T) {
		m := ModelFromName(ModelLlama33.Name)
		if m.Description == "" {
			t.Error("catalog model should carry its description")
		}
	})

	t.Run("unknown id passes through", func(t *testing.T) {
		m := ModelFromName("someorg/SomeModel-7B")
		if m.Name != "someorg/SomeModel-7B" {
			t.Errorf("Name = %q", m.Name)
		}
		if m.Description != "" {
			t.Errorf("unknown model should have no description, got %q", m.Description)
		}
	})
}

func TestAllModelsContainsDefault(t *testing.T) {
	found := false
	for _, m := range AllModels() {
		if m == DefaultModel {
			found = true
		}
	}
	if !found {
		t.Error("DefaultModel missing from catalog")
	}
}
