package storage

import "testing"

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Manager ")
	if err != nil {
		t.Fatalf("ParseRole: %v", err)
	}
	if role != RoleManager {
		t.Errorf("role = %q, want %q", role, RoleManager)
	}

	if _, err := ParseRole("janitor"); err == nil {
		t.Error("ParseRole accepted an unknown role")
	}
}

func TestPermissionLevel(t *testing.T) {
	s := newTestStorage(t)

	_ = s.SetRole("g1", RoleRadio, "r-radio")
	_ = s.SetRole("g1", RoleManager, "r-manager")

	// Guild administrators outrank every binding.
	level, err := s.PermissionLevel("g1", nil, true)
	if err != nil {
		t.Fatalf("PermissionLevel: %v", err)
	}
	if level != LevelAdministrator {
		t.Errorf("admin level = %d, want %d", level, LevelAdministrator)
	}

	// The highest bound role wins.
	level, _ = s.PermissionLevel("g1", []string{"r-radio", "r-manager"}, false)
	if level != LevelManager {
		t.Errorf("level = %d, want %d", level, LevelManager)
	}

	level, _ = s.PermissionLevel("g1", []string{"r-radio"}, false)
	if level != LevelRadio {
		t.Errorf("level = %d, want %d", level, LevelRadio)
	}

	// No bound roles held means level zero.
	level, _ = s.PermissionLevel("g1", []string{"r-unrelated"}, false)
	if level != 0 {
		t.Errorf("level = %d, want 0", level)
	}
}

func TestRemoveRole(t *testing.T) {
	s := newTestStorage(t)
	_ = s.SetRole("g1", RoleQotd, "r-qotd")

	prev, err := s.RemoveRole("g1", RoleQotd)
	if err != nil {
		t.Fatalf("RemoveRole: %v", err)
	}
	if prev != "r-qotd" {
		t.Errorf("prev = %q, want r-qotd", prev)
	}

	id, _ := s.RoleID("g1", RoleQotd)
	if id != "" {
		t.Errorf("RoleID after remove = %q, want empty", id)
	}
}
