package storage

import (
	"time"

	"github.com/google/uuid"
)

// AppendCommandToHistory records a command for bot, keeping the newest
// entries only. A missing ID or timestamp is filled in.
func (s *Storage) AppendCommandToHistory(bot string, command CommandHistoryRecord) (CommandHistoryRecord, error) {
	if command.ID == "" {
		command.ID = uuid.NewString()
	}
	if command.Datetime.IsZero() {
		command.Datetime = time.Now()
	}

	err := s.update(bot, func(r *Record) {
		r.CommandsHistoryList = append(r.CommandsHistoryList, command)
		if n := len(r.CommandsHistoryList); n > commandHistoryLimit {
			r.CommandsHistoryList = r.CommandsHistoryList[n-commandHistoryLimit:]
		}
	})
	return command, err
}

// FetchCommandHistory returns the stored commands of bot, oldest first.
func (s *Storage) FetchCommandHistory(bot string) ([]CommandHistoryRecord, error) {
	record, err := s.view(bot)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}
