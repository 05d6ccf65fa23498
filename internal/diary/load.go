package diary

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mark31d/OlympusAirDiary/internal/models"
)

// read returns the raw value under key, or false when the key is missing or
// the backend failed.
func (s *Store) read(ctx context.Context, key string) (string, bool) {
	raw, found, err := s.kv.Get(ctx, key)
	if err != nil {
		s.logger.Warn("load failed, using default", "key", key, "error", err)
		return "", false
	}
	if !found {
		return "", false
	}
	return raw, true
}

func (s *Store) loadMemories(ctx context.Context) []models.Memory {
	raw, ok := s.read(ctx, KeyMemories)
	if !ok {
		return []models.Memory{}
	}

	var decoded []models.Memory
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logger.Debug("malformed memories, using default", "error", err)
		return []models.Memory{}
	}

	// Older snapshots may carry blank or repeated ids; keep the first record
	// for each id and give blank ones a fresh id.
	out := make([]models.Memory, 0, len(decoded))
	seen := make(map[string]struct{}, len(decoded))
	for _, m := range decoded {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if _, dup := seen[m.ID]; dup {
			s.logger.Debug("dropping duplicate memory id", "id", m.ID)
			continue
		}
		seen[m.ID] = struct{}{}
		m.Title = normalizeTitle(m.Title)
		out = append(out, m)
	}
	return out
}

func (s *Store) loadPoints(ctx context.Context) int {
	raw, ok := s.read(ctx, KeyPoints)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		s.logger.Debug("malformed points, using default", "raw", raw)
		return 0
	}
	return n
}

func (s *Store) loadTips(ctx context.Context) []string {
	raw, ok := s.read(ctx, KeyPurchasedTips)
	if !ok {
		return []string{}
	}

	var decoded []string
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		s.logger.Debug("malformed purchased tips, using default", "error", err)
		return []string{}
	}

	out := make([]string, 0, len(decoded))
	seen := make(map[string]struct{}, len(decoded))
	for _, t := range decoded {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
