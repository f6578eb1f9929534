package store

import (
	"fmt"
	"time"
)

// InsertUsageLog appends a provenance row for one orchestrator
// invocation. Rows are never updated or deleted.
func (s *Store) InsertUsageLog(l *UsageLog) error {
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(`INSERT INTO agent_usage_logs
		(agent_id, api_key_id, action_type, tokens_used, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		l.AgentID, l.APIKeyID, l.ActionType, l.TokensUsed, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert usage log: %w", err)
	}
	l.ID, _ = res.LastInsertId()
	return nil
}

// ListUsageLogs returns the agent's most recent usage rows, newest
// first.
func (s *Store) ListUsageLogs(agentID string, limit int) ([]*UsageLog, error) {
	rows, err := s.db.Query(`SELECT id, agent_id, api_key_id, action_type, tokens_used, created_at
		FROM agent_usage_logs WHERE agent_id = ?
		ORDER BY created_at DESC LIMIT ?`, agentID, limit)
	if err != nil {
		return nil, fmt.Errorf("list usage logs: %w", err)
	}
	defer rows.Close()

	var logs []*UsageLog
	for rows.Next() {
		var l UsageLog
		if err := rows.Scan(&l.ID, &l.AgentID, &l.APIKeyID, &l.ActionType, &l.TokensUsed, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan usage log: %w", err)
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}

// TotalTokensUsed sums an agent's lifetime token consumption. Zero-token
// rows count as zero, not as missing data.
func (s *Store) TotalTokensUsed(agentID string) (int64, error) {
	var total int64
	err := s.db.QueryRow(`SELECT COALESCE(SUM(tokens_used), 0)
		FROM agent_usage_logs WHERE agent_id = ?`, agentID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum tokens: %w", err)
	}
	return total, nil
}
