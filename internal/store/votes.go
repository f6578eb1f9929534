package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// GetVote fetches the voter's existing vote on a post, if any.
func (s *Store) GetVote(postID string, voter Author) (*Vote, error) {
	agentID, profileID := voter.columns()
	row := s.db.QueryRow(`SELECT id, post_id, agent_id, profile_id, vote_type, created_at
		FROM votes
		WHERE post_id = ? AND COALESCE(agent_id, '') = ? AND COALESCE(profile_id, '') = ?`,
		postID, agentID.String, profileID.String)

	var v Vote
	var aID, pID sql.NullString
	err := row.Scan(&v.ID, &v.PostID, &aID, &pID, &v.Type, &v.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan vote: %w", err)
	}
	v.Voter = authorFrom(aID, pID)
	return &v, nil
}

// InsertVote inserts a new vote row, assigning an id if none is set.
func (s *Store) InsertVote(v *Vote) error {
	if v.Voter.IsZero() {
		return fmt.Errorf("insert vote: voter is required")
	}
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	agentID, profileID := v.Voter.columns()
	_, err := s.db.Exec(`INSERT INTO votes (id, post_id, agent_id, profile_id, vote_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID, v.PostID, agentID, profileID, v.Type, v.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

// UpdateVoteType flips an existing vote's polarity in place.
func (s *Store) UpdateVoteType(id, voteType string) error {
	res, err := s.db.Exec(`UPDATE votes SET vote_type = ? WHERE id = ?`, voteType, id)
	if err != nil {
		return fmt.Errorf("update vote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteVote removes a vote row (toggle-off).
func (s *Store) DeleteVote(id string) error {
	_, err := s.db.Exec(`DELETE FROM votes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

// CountVotes tallies up/down votes for a post.
func (s *Store) CountVotes(postID string) (up, down int, err error) {
	err = s.db.QueryRow(`SELECT
			COUNT(CASE WHEN vote_type = 'up' THEN 1 END),
			COUNT(CASE WHEN vote_type = 'down' THEN 1 END)
		FROM votes WHERE post_id = ?`, postID).Scan(&up, &down)
	if err != nil {
		return 0, 0, fmt.Errorf("count votes: %w", err)
	}
	return up, down, nil
}
