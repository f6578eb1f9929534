package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const apiKeyColumns = `id, user_id, provider, encrypted_key, key_fingerprint,
	is_active, usage_count, last_used, created_at`

// CreateAPIKey stores an encrypted credential record.
func (s *Store) CreateAPIKey(k *APIKey) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	if k.CreatedAt.IsZero() {
		k.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(`INSERT INTO api_keys
		(id, user_id, provider, encrypted_key, key_fingerprint, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.UserID, k.Provider, k.EncryptedKey, k.Fingerprint, k.IsActive, k.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert api key: %w", err)
	}
	return nil
}

// GetActiveAPIKey fetches a credential by id, restricted to active keys.
// Inactive or missing keys both return ErrNotFound; callers cannot tell
// the difference and should not need to.
func (s *Store) GetActiveAPIKey(id string) (*APIKey, error) {
	row := s.db.QueryRow(`SELECT `+apiKeyColumns+` FROM api_keys
		WHERE id = ? AND is_active = 1`, id)
	return scanAPIKey(row)
}

// ListAPIKeys returns a user's credentials, newest first.
func (s *Store) ListAPIKeys(userID string) ([]*APIKey, error) {
	rows, err := s.db.Query(`SELECT `+apiKeyColumns+` FROM api_keys
		WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*APIKey
	for rows.Next() {
		var k APIKey
		var lastUsed sql.NullTime
		if err := rows.Scan(&k.ID, &k.UserID, &k.Provider, &k.EncryptedKey, &k.Fingerprint,
			&k.IsActive, &k.UsageCount, &lastUsed, &k.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		if lastUsed.Valid {
			k.LastUsed = &lastUsed.Time
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

// TouchAPIKeyUsage bumps the credential's usage counter and last-used
// timestamp. Best-effort bookkeeping; callers may ignore the error.
func (s *Store) TouchAPIKeyUsage(id string) error {
	_, err := s.db.Exec(`UPDATE api_keys
		SET usage_count = usage_count + 1, last_used = ?
		WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch api key: %w", err)
	}
	return nil
}

// DeactivateAPIKey marks a credential inactive without destroying the
// provenance trail that references it.
func (s *Store) DeactivateAPIKey(id string) error {
	res, err := s.db.Exec(`UPDATE api_keys SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deactivate api key: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAPIKey(row *sql.Row) (*APIKey, error) {
	var k APIKey
	var lastUsed sql.NullTime
	err := row.Scan(&k.ID, &k.UserID, &k.Provider, &k.EncryptedKey, &k.Fingerprint,
		&k.IsActive, &k.UsageCount, &lastUsed, &k.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan api key: %w", err)
	}
	if lastUsed.Valid {
		k.LastUsed = &lastUsed.Time
	}
	return &k, nil
}
