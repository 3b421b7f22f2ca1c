// Package storage persists all per-guild bot state. Each guild owns a single
// Record document in the datastore; every mutating operation re-reads the
// document inside one atomic update, so handlers never work from a stale
// queue snapshot.
package storage

import (
	"encoding/json"
	"fmt"
	"log"

	"atlas-bot/datastore"
)

type Storage struct {
	ds *datastore.DataStore
}

// Record is the full per-guild document.
type Record struct {
	Radio   RadioRecord             `json:"radio"`
	Roles   map[string]string       `json:"roles"`   // role name -> Discord role ID
	Modules map[string]ModuleConfig `json:"modules"` // module name -> config
	Blames  map[string][]BlameEntry `json:"blames"`  // user ID -> blames
	Qotd    QotdRecord              `json:"qotd"`
}

func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

func (s *Storage) Close() error {
	return s.ds.Close()
}

func defaultRecord() *Record {
	return &Record{
		Radio:   RadioRecord{Loop: LoopPlaylist, Playlist: []Track{}},
		Roles:   map[string]string{},
		Modules: map[string]ModuleConfig{},
		Blames:  map[string][]BlameEntry{},
		Qotd:    QotdRecord{Pending: []Question{}, Accepted: []Question{}},
	}
}

// normalize repairs nil sub-fields on documents written by older revisions.
func (r *Record) normalize() {
	if r.Radio.Loop == "" {
		r.Radio.Loop = LoopPlaylist
	}
	if r.Radio.Playlist == nil {
		r.Radio.Playlist = []Track{}
	}
	if r.Roles == nil {
		r.Roles = map[string]string{}
	}
	if r.Modules == nil {
		r.Modules = map[string]ModuleConfig{}
	}
	if r.Blames == nil {
		r.Blames = map[string][]BlameEntry{}
	}
}

// getOrCreateGuildRecord loads a guild's Record, persisting the default
// document on first access. Duplicate creates from racing handlers are
// absorbed by PutIfAbsent.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	raw, exists := s.ds.Get(guildID)
	if !exists {
		def := defaultRecord()
		data, err := json.Marshal(def)
		if err != nil {
			return nil, fmt.Errorf("error marshalling default record: %w", err)
		}
		if s.ds.PutIfAbsent(guildID, data) {
			return def, nil
		}
		// lost the first-access race; somebody else created it
		raw, _ = s.ds.Get(guildID)
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling guild record: %w", err)
	}
	record.normalize()
	return &record, nil
}

// updateGuildRecord applies fn to a guild's Record as one atomic document
// update. The closure runs under the datastore lock, so no other handler can
// observe a half-applied mutation.
func (s *Storage) updateGuildRecord(guildID string, fn func(*Record)) error {
	var outErr error
	s.ds.Update(guildID, func(raw json.RawMessage) json.RawMessage {
		record := defaultRecord()
		if raw != nil {
			if err := json.Unmarshal(raw, record); err != nil {
				outErr = fmt.Errorf("error unmarshalling guild record: %w", err)
				return nil
			}
			record.normalize()
		}

		fn(record)

		data, err := json.Marshal(record)
		if err != nil {
			outErr = fmt.Errorf("error marshalling guild record: %w", err)
			return nil
		}
		return data
	})
	return outErr
}

// GuildIDs returns every guild with a stored record.
func (s *Storage) GuildIDs() []string {
	return s.ds.Keys()
}

// Save forces an immediate flush to disk.
func (s *Storage) Save() {
	if err := s.ds.SaveToFile(); err != nil {
		log.Printf("[ERR] Failed to save datastore: %v", err)
	}
}
