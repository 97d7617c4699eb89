// /internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const commandHistoryLimit int = 20

// Storage persists per-bot state in a datastore file. Each bot is one key.
type Storage struct {
	mu     sync.Mutex
	ds     *datastore.DataStore
	cancel context.CancelFunc
}

// CommandHistoryRecord is one dispatched command that produced a response.
type CommandHistoryRecord struct {
	ID       string    `json:"id"`
	Caller   uint64    `json:"caller"`
	Source   string    `json:"source"`
	Command  string    `json:"command"`
	Param    string    `json:"param"`
	Datetime time.Time `json:"datetime"`
}

// Record is the stored state of one bot.
type Record struct {
	Paused              bool                   `json:"paused"`
	Grants              map[string]string      `json:"grants"` // caller id -> access level name
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
}

func New(filePath string) (*Storage, error) {
	ctx, cancel := context.WithCancel(context.Background())
	ds, err := datastore.New(ctx, filePath)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open datastore %s: %w", filePath, err)
	}
	return &Storage{ds: ds, cancel: cancel}, nil
}

// Close stops the autosave loop and flushes the file.
func (s *Storage) Close() error {
	s.cancel()
	return s.ds.Close()
}

func botKey(bot string) string {
	return "bot:" + strings.ToLower(bot)
}

func (s *Storage) getOrCreateBotRecord(bot string) (*Record, error) {
	var record Record
	if _, err := s.ds.Get(botKey(bot), &record); err != nil {
		return nil, fmt.Errorf("read record of %s: %w", bot, err)
	}
	if record.Grants == nil {
		record.Grants = map[string]string{}
	}
	return &record, nil
}

// update applies fn to the record of bot under the storage lock and saves it.
func (s *Storage) update(bot string, fn func(*Record)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateBotRecord(bot)
	if err != nil {
		return err
	}
	fn(record)
	if err := s.ds.Set(botKey(bot), record); err != nil {
		return fmt.Errorf("save record of %s: %w", bot, err)
	}
	return nil
}

func (s *Storage) view(bot string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOrCreateBotRecord(bot)
}

// SetPaused stores whether bot is paused. New bots are not paused.
func (s *Storage) SetPaused(bot string, paused bool) error {
	return s.update(bot, func(r *Record) { r.Paused = paused })
}

func (s *Storage) IsPaused(bot string) (bool, error) {
	record, err := s.view(bot)
	if err != nil {
		return false, err
	}
	return record.Paused, nil
}
