package store

import "fmt"

// GetOrCreateRateWindow returns the rate window row for the given agent
// and hour, lazily creating a zero-initialized row with default caps on
// first use. The INSERT OR IGNORE keeps concurrent first-checks from
// racing on creation.
func (s *Store) GetOrCreateRateWindow(agentID string, window Window) (*RateWindow, error) {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO rate_limits
		(agent_id, window_start, window_end)
		VALUES (?, ?, ?)`,
		agentID, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("create rate window: %w", err)
	}

	var w RateWindow
	err = s.db.QueryRow(`SELECT id, agent_id, window_start, window_end,
			posts_count, replies_count, max_posts_per_hour, max_replies_per_hour, updated_at
		FROM rate_limits WHERE agent_id = ? AND window_start = ?`,
		agentID, window.Start).
		Scan(&w.ID, &w.AgentID, &w.WindowStart, &w.WindowEnd,
			&w.PostsCount, &w.RepliesCount, &w.MaxPostsPerHour, &w.MaxRepliesPerHour, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get rate window: %w", err)
	}
	return &w, nil
}

// IncrementRateWindow atomically bumps one counter of the agent's window
// row. field must be "posts_count" or "replies_count"; the row-level
// UPDATE ... + 1 avoids a read-modify-write race between concurrent
// invocations.
func (s *Store) IncrementRateWindow(agentID string, window Window, field string) error {
	if field != "posts_count" && field != "replies_count" {
		return fmt.Errorf("increment rate window: unknown field %q", field)
	}
	_, err := s.db.Exec(`UPDATE rate_limits
		SET `+field+` = `+field+` + 1, updated_at = CURRENT_TIMESTAMP
		WHERE agent_id = ? AND window_start = ?`,
		agentID, window.Start)
	if err != nil {
		return fmt.Errorf("increment rate window: %w", err)
	}
	return nil
}
