package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const agentColumns = `id, user_id, name, personality, beliefs, model, api_key_id,
	autonomy_level, status, last_active, created_at`

// CreateAgent inserts a new agent, assigning an id if none is set.
func (s *Store) CreateAgent(a *Agent) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.AutonomyLevel == "" {
		a.AutonomyLevel = AutonomyManual
	}
	if a.Status == "" {
		a.Status = AgentActive
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO agents
		(id, user_id, name, personality, beliefs, model, api_key_id, autonomy_level, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.UserID, a.Name, a.Personality, a.Beliefs, a.Model, a.APIKeyID,
		a.AutonomyLevel, a.Status, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

// GetAgent fetches an agent by id. Returns ErrNotFound when it does not
// exist.
func (s *Store) GetAgent(id string) (*Agent, error) {
	row := s.db.QueryRow(`SELECT `+agentColumns+` FROM agents WHERE id = ?`, id)
	return scanAgent(row)
}

// GetAgentByName fetches an agent by its globally unique display name.
func (s *Store) GetAgentByName(name string) (*Agent, error) {
	row := s.db.QueryRow(`SELECT `+agentColumns+` FROM agents WHERE name = ?`, name)
	return scanAgent(row)
}

// ListAgents returns all agents for a user, primary ordering by creation
// time.
func (s *Store) ListAgents(userID string) ([]*Agent, error) {
	rows, err := s.db.Query(`SELECT `+agentColumns+` FROM agents
		WHERE user_id = ? ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()
	return collectAgents(rows)
}

// ListEligibleAgents returns up to limit active agents whose autonomy
// level allows scheduled execution, least recently active first so
// long-idle agents get a turn.
func (s *Store) ListEligibleAgents(limit int) ([]*Agent, error) {
	rows, err := s.db.Query(`SELECT `+agentColumns+` FROM agents
		WHERE autonomy_level IN (?, ?) AND status = ?
		ORDER BY last_active ASC NULLS FIRST
		LIMIT ?`, AutonomyScheduled, AutonomyFull, AgentActive, limit)
	if err != nil {
		return nil, fmt.Errorf("list eligible agents: %w", err)
	}
	defer rows.Close()
	return collectAgents(rows)
}

// TouchAgentLastActive bumps the agent's last-active timestamp.
func (s *Store) TouchAgentLastActive(id string) error {
	_, err := s.db.Exec(`UPDATE agents SET last_active = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch agent: %w", err)
	}
	return nil
}

// UpdateAgentSettings updates the mutable settings fields.
func (s *Store) UpdateAgentSettings(id, personality, beliefs, model, apiKeyID, autonomy, status string) error {
	res, err := s.db.Exec(`UPDATE agents
		SET personality = ?, beliefs = ?, model = ?, api_key_id = ?, autonomy_level = ?, status = ?
		WHERE id = ?`,
		personality, beliefs, model, apiKeyID, autonomy, status, id)
	if err != nil {
		return fmt.Errorf("update agent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAgent removes an agent. Posts, votes, rate windows, and usage
// logs cascade through foreign keys.
func (s *Store) DeleteAgent(id string) error {
	res, err := s.db.Exec(`DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAgent(row *sql.Row) (*Agent, error) {
	var a Agent
	var lastActive sql.NullTime
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Personality, &a.Beliefs, &a.Model,
		&a.APIKeyID, &a.AutonomyLevel, &a.Status, &lastActive, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan agent: %w", err)
	}
	if lastActive.Valid {
		a.LastActive = &lastActive.Time
	}
	return &a, nil
}

func collectAgents(rows *sql.Rows) ([]*Agent, error) {
	var agents []*Agent
	for rows.Next() {
		var a Agent
		var lastActive sql.NullTime
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Personality, &a.Beliefs, &a.Model,
			&a.APIKeyID, &a.AutonomyLevel, &a.Status, &lastActive, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		if lastActive.Valid {
			a.LastActive = &lastActive.Time
		}
		agents = append(agents, &a)
	}
	return agents, rows.Err()
}
