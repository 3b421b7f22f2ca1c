package storage

import (
	"fmt"
	"strings"
)

// Module is the closed set of toggleable bot modules.
type Module string

const (
	ModuleBlame Module = "blame"
	ModuleQotd  Module = "qotd"
	ModuleRadio Module = "radio"
)

// ModuleConfig is the per-guild configuration attached to an enabled module.
type ModuleConfig struct {
	ChannelID string `json:"channel"`        // channel the module is bound to
	Time      string `json:"time,omitempty"` // "HH:MM" UTC, QOTD only
}

// ModuleBinding pairs a guild with its config for one module.
type ModuleBinding struct {
	GuildID string
	Config  ModuleConfig
}

// AllModules lists every toggleable module.
func AllModules() []Module {
	return []Module{ModuleBlame, ModuleQotd, ModuleRadio}
}

// ParseModule maps a user-supplied name to a Module, failing on unknown input.
func ParseModule(name string) (Module, error) {
	switch Module(strings.ToLower(strings.TrimSpace(name))) {
	case ModuleBlame:
		return ModuleBlame, nil
	case ModuleQotd:
		return ModuleQotd, nil
	case ModuleRadio:
		return ModuleRadio, nil
	default:
		return "", fmt.Errorf("unknown module %q", name)
	}
}

// EnableModule turns a module on for a guild, replacing any previous config.
func (s *Storage) EnableModule(guildID string, m Module, cfg ModuleConfig) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		r.Modules[string(m)] = cfg
	})
}

// DisableModule turns a module off for a guild.
func (s *Storage) DisableModule(guildID string, m Module) error {
	return s.updateGuildRecord(guildID, func(r *Record) {
		delete(r.Modules, string(m))
	})
}

// ModuleEnabled reports whether a module is enabled for a guild.
func (s *Storage) ModuleEnabled(guildID string, m Module) (bool, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return false, err
	}
	_, ok := record.Modules[string(m)]
	return ok, nil
}

// ModuleConfigFor returns the config of an enabled module, or nil when the
// module is disabled.
func (s *Storage) ModuleConfigFor(guildID string, m Module) (*ModuleConfig, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	cfg, ok := record.Modules[string(m)]
	if !ok {
		return nil, nil
	}
	return &cfg, nil
}

// EnabledModules returns the modules enabled for a guild.
func (s *Storage) EnabledModules(guildID string) ([]Module, error) {
	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}

	var out []Module
	for name := range record.Modules {
		m, err := ParseModule(name)
		if err != nil {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// GuildsWithModule returns every guild that has the module enabled, with its
// config. Used by the QOTD scheduler to fan out the per-minute check.
func (s *Storage) GuildsWithModule(m Module) []ModuleBinding {
	var out []ModuleBinding
	for _, guildID := range s.ds.Keys() {
		record, err := s.getOrCreateGuildRecord(guildID)
		if err != nil {
			continue
		}
		if cfg, ok := record.Modules[string(m)]; ok {
			out = append(out, ModuleBinding{GuildID: guildID, Config: cfg})
		}
	}
	return out
}
