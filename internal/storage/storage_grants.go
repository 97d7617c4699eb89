package storage

import (
	"strconv"

	"github.com/keshon/botinvoker/pkg/cmd"
)

// SetGrant stores caller's access level on bot. AccessNone removes the grant.
func (s *Storage) SetGrant(bot string, caller uint64, level cmd.Access) error {
	key := strconv.FormatUint(caller, 10)
	return s.update(bot, func(r *Record) {
		if level == cmd.AccessNone {
			delete(r.Grants, key)
			return
		}
		r.Grants[key] = level.String()
	})
}

// Grant returns caller's access level on bot, AccessNone when unset.
func (s *Storage) Grant(bot string, caller uint64) (cmd.Access, error) {
	record, err := s.view(bot)
	if err != nil {
		return cmd.AccessNone, err
	}
	name, ok := record.Grants[strconv.FormatUint(caller, 10)]
	if !ok {
		return cmd.AccessNone, nil
	}
	level, ok := cmd.ParseAccess(name)
	if !ok {
		return cmd.AccessNone, nil
	}
	return level, nil
}

// Grants lists every grant on bot keyed by caller id.
func (s *Storage) Grants(bot string) (map[uint64]cmd.Access, error) {
	record, err := s.view(bot)
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]cmd.Access, len(record.Grants))
	for k, v := range record.Grants {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			continue
		}
		if level, ok := cmd.ParseAccess(v); ok {
			out[id] = level
		}
	}
	return out, nil
}
