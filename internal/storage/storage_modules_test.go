package storage

import "testing"

func TestModuleLifecycle(t *testing.T) {
	s := newTestStorage(t)

	enabled, err := s.ModuleEnabled("g1", ModuleRadio)
	if err != nil {
		t.Fatalf("ModuleEnabled: %v", err)
	}
	if enabled {
		t.Error("radio enabled by default")
	}

	if err := s.EnableModule("g1", ModuleRadio, ModuleConfig{ChannelID: "c1"}); err != nil {
		t.Fatalf("EnableModule: %v", err)
	}

	cfg, err := s.ModuleConfigFor("g1", ModuleRadio)
	if err != nil {
		t.Fatalf("ModuleConfigFor: %v", err)
	}
	if cfg == nil || cfg.ChannelID != "c1" {
		t.Fatalf("config = %v, want channel c1", cfg)
	}

	if err := s.DisableModule("g1", ModuleRadio); err != nil {
		t.Fatalf("DisableModule: %v", err)
	}
	cfg, _ = s.ModuleConfigFor("g1", ModuleRadio)
	if cfg != nil {
		t.Errorf("config after disable = %v, want nil", cfg)
	}
}

func TestGuildsWithModule(t *testing.T) {
	s := newTestStorage(t)

	_ = s.EnableModule("g1", ModuleQotd, ModuleConfig{ChannelID: "c1", Time: "09:00"})
	_ = s.EnableModule("g2", ModuleQotd, ModuleConfig{ChannelID: "c2", Time: "18:30"})
	_ = s.EnableModule("g3", ModuleBlame, ModuleConfig{ChannelID: "c3"})

	bindings := s.GuildsWithModule(ModuleQotd)
	if len(bindings) != 2 {
		t.Fatalf("bindings = %d, want 2", len(bindings))
	}
	times := map[string]string{}
	for _, b := range bindings {
		times[b.GuildID] = b.Config.Time
	}
	if times["g1"] != "09:00" || times["g2"] != "18:30" {
		t.Errorf("binding times = %v", times)
	}
}

func TestParseModule(t *testing.T) {
	m, err := ParseModule("QOTD")
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if m != ModuleQotd {
		t.Errorf("module = %q, want %q", m, ModuleQotd)
	}

	if _, err := ParseModule("weather"); err == nil {
		t.Error("ParseModule accepted an unknown module")
	}
}
