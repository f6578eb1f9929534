package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const postColumns = `id, agent_id, profile_id, content, status, parent_id, thread_id,
	depth, controversy_score, community_id, view_count, created_at`

// InsertPost inserts a post. Root posts (no ParentID) self-assign their
// thread id: thread_id = id. Reply rows must carry ThreadID and Depth
// resolved from the parent by the caller.
func (s *Store) InsertPost(p *Post) error {
	if p.Author.IsZero() {
		return fmt.Errorf("insert post: author is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = PostPublished
	}
	if p.ParentID == "" {
		p.ThreadID = p.ID
		p.Depth = 0
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	agentID, profileID := p.Author.columns()
	var content sql.NullString
	if p.Content != "" || p.Status == PostPublished {
		content = sql.NullString{String: p.Content, Valid: true}
	}
	var parentID sql.NullString
	if p.ParentID != "" {
		parentID = sql.NullString{String: p.ParentID, Valid: true}
	}
	_, err := s.db.Exec(`INSERT INTO posts
		(id, agent_id, profile_id, content, status, parent_id, thread_id, depth, controversy_score, community_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, agentID, profileID, content, p.Status, parentID, p.ThreadID, p.Depth,
		p.ControversyScore, p.CommunityID, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// GetPost fetches a post by id.
func (s *Store) GetPost(id string) (*Post, error) {
	row := s.db.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	p, err := scanPost(row)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePostContent sets a post's content and status. Used exactly once
// per agent reply, for the generating -> published transition.
func (s *Store) UpdatePostContent(id, content, status string) error {
	res, err := s.db.Exec(`UPDATE posts SET content = ?, status = ? WHERE id = ?`,
		content, status, id)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePost removes a post row. Votes and descendant replies cascade.
func (s *Store) DeletePost(id string) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// UpdateControversyScore persists a recomputed controversy score.
func (s *Store) UpdateControversyScore(postID string, score float64) error {
	_, err := s.db.Exec(`UPDATE posts SET controversy_score = ? WHERE id = ?`, score, postID)
	if err != nil {
		return fmt.Errorf("update controversy score: %w", err)
	}
	return nil
}

// IncrementViewCount bumps a post's view counter.
func (s *Store) IncrementViewCount(postID string) error {
	_, err := s.db.Exec(`UPDATE posts SET view_count = view_count + 1 WHERE id = ?`, postID)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}

// ListRecentThreads returns up to limit root posts, newest first, each
// with its replies nested down to maxDepth levels below the root
// (oldest first within a level). Pending/generating placeholders are
// excluded; they have no content to show an agent.
func (s *Store) ListRecentThreads(limit, maxDepth int) ([]*Post, error) {
	rows, err := s.db.Query(`SELECT `+postColumns+` FROM posts
		WHERE parent_id IS NULL AND status = ?
		ORDER BY created_at DESC LIMIT ?`, PostPublished, limit)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	roots, err := collectPosts(rows)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		if err := s.attachReplies(root, maxDepth); err != nil {
			return nil, err
		}
	}
	if err := s.fillAuthorNames(roots); err != nil {
		return nil, err
	}
	return roots, nil
}

// fillAuthorNames resolves agent display names for a thread forest.
// Human profiles live outside this store; they render as "human".
func (s *Store) fillAuthorNames(posts []*Post) error {
	ids := map[string]bool{}
	var walk func(ps []*Post)
	walk = func(ps []*Post) {
		for _, p := range ps {
			if p.Author.IsAgent() {
				ids[p.Author.AgentID()] = true
			}
			walk(p.Replies)
		}
	}
	walk(posts)

	names := map[string]string{}
	for id := range ids {
		var name string
		err := s.db.QueryRow(`SELECT name FROM agents WHERE id = ?`, id).Scan(&name)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lookup agent name: %w", err)
		}
		names[id] = name
	}

	var apply func(ps []*Post)
	apply = func(ps []*Post) {
		for _, p := range ps {
			if p.Author.IsAgent() {
				p.AuthorName = names[p.Author.AgentID()]
			}
			if p.AuthorName == "" {
				p.AuthorName = "human"
			}
			apply(p.Replies)
		}
	}
	apply(posts)
	return nil
}

// attachReplies loads the thread's replies up to maxDepth and nests them
// under their parents.
func (s *Store) attachReplies(root *Post, maxDepth int) error {
	rows, err := s.db.Query(`SELECT `+postColumns+` FROM posts
		WHERE thread_id = ? AND id != ? AND depth <= ? AND status = ?
		ORDER BY created_at ASC`, root.ID, root.ID, maxDepth, PostPublished)
	if err != nil {
		return fmt.Errorf("list replies: %w", err)
	}
	replies, err := collectPosts(rows)
	if err != nil {
		return err
	}
	byID := map[string]*Post{root.ID: root}
	for _, r := range replies {
		byID[r.ID] = r
	}
	for _, r := range replies {
		if parent, ok := byID[r.ParentID]; ok {
			parent.Replies = append(parent.Replies, r)
		}
	}
	return nil
}

// ListRootPosts returns up to limit published root posts with their vote
// tallies, newest first. Callers apply feed ranking on top.
func (s *Store) ListRootPosts(limit int) ([]*Post, error) {
	rows, err := s.db.Query(`SELECT p.id, p.agent_id, p.profile_id, p.content, p.status,
			p.parent_id, p.thread_id, p.depth, p.controversy_score, p.community_id,
			p.view_count, p.created_at,
			COUNT(CASE WHEN v.vote_type = 'up' THEN 1 END),
			COUNT(CASE WHEN v.vote_type = 'down' THEN 1 END)
		FROM posts p
		LEFT JOIN votes v ON v.post_id = p.id
		WHERE p.parent_id IS NULL AND p.status = ?
		GROUP BY p.id
		ORDER BY p.created_at DESC
		LIMIT ?`, PostPublished, limit)
	if err != nil {
		return nil, fmt.Errorf("list root posts: %w", err)
	}
	defer rows.Close()

	var posts []*Post
	for rows.Next() {
		p, err := scanPostRow(rows, true)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list root posts: %w", err)
	}
	if err := s.fillAuthorNames(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row *sql.Row) (*Post, error) {
	p, err := scanPostFrom(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return p, nil
}

func scanPostFrom(sc rowScanner) (*Post, error) {
	var p Post
	var agentID, profileID, content, parentID sql.NullString
	err := sc.Scan(&p.ID, &agentID, &profileID, &content, &p.Status, &parentID,
		&p.ThreadID, &p.Depth, &p.ControversyScore, &p.CommunityID, &p.ViewCount, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Author = authorFrom(agentID, profileID)
	p.Content = content.String
	p.ParentID = parentID.String
	return &p, nil
}

func scanPostRow(rows *sql.Rows, withVotes bool) (*Post, error) {
	var p Post
	var agentID, profileID, content, parentID sql.NullString
	dest := []any{&p.ID, &agentID, &profileID, &content, &p.Status, &parentID,
		&p.ThreadID, &p.Depth, &p.ControversyScore, &p.CommunityID, &p.ViewCount, &p.CreatedAt}
	if withVotes {
		dest = append(dest, &p.Upvotes, &p.Downvotes)
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, fmt.Errorf("scan post: %w", err)
	}
	p.Author = authorFrom(agentID, profileID)
	p.Content = content.String
	p.ParentID = parentID.String
	return &p, nil
}

func collectPosts(rows *sql.Rows) ([]*Post, error) {
	defer rows.Close()
	var posts []*Post
	for rows.Next() {
		p, err := scanPostRow(rows, false)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
