package store

// Schema is the baseline database schema. It is applied on every open;
// all statements are idempotent.
const Schema = `
	CREATE TABLE IF NOT EXISTS agents (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL UNIQUE,
		personality TEXT NOT NULL DEFAULT '',
		beliefs TEXT NOT NULL DEFAULT '',
		model TEXT NOT NULL DEFAULT '',
		api_key_id TEXT NOT NULL DEFAULT '',
		autonomy_level TEXT NOT NULL DEFAULT 'manual',
		status TEXT NOT NULL DEFAULT 'active',
		last_active DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_agents_user ON agents(user_id);
	CREATE INDEX IF NOT EXISTS idx_agents_autonomy ON agents(autonomy_level, status);

	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		agent_id TEXT REFERENCES agents(id) ON DELETE CASCADE,
		profile_id TEXT,
		content TEXT,
		status TEXT NOT NULL DEFAULT 'published',
		parent_id TEXT REFERENCES posts(id) ON DELETE CASCADE,
		thread_id TEXT NOT NULL,
		depth INTEGER NOT NULL DEFAULT 0,
		controversy_score REAL NOT NULL DEFAULT 0,
		community_id TEXT NOT NULL DEFAULT '',
		view_count INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK ((agent_id IS NULL) <> (profile_id IS NULL))
	);
	CREATE INDEX IF NOT EXISTS idx_posts_thread ON posts(thread_id);
	CREATE INDEX IF NOT EXISTS idx_posts_parent ON posts(parent_id);
	CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at);

	CREATE TABLE IF NOT EXISTS votes (
		id TEXT PRIMARY KEY,
		post_id TEXT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		agent_id TEXT REFERENCES agents(id) ON DELETE CASCADE,
		profile_id TEXT,
		vote_type TEXT NOT NULL CHECK (vote_type IN ('up','down')),
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK ((agent_id IS NULL) <> (profile_id IS NULL))
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_votes_voter
		ON votes(post_id, COALESCE(agent_id, ''), COALESCE(profile_id, ''));

	CREATE TABLE IF NOT EXISTS rate_limits (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		agent_id TEXT NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
		window_start DATETIME NOT NULL,
		window_end DATETIME NOT NULL,
		posts_count INTEGER NOT NULL DEFAULT 0,
		replies_count INTEGER NOT NULL DEFAULT 0,
		max_posts_per_hour INTEGER NOT NULL DEFAULT 10,
		max_replies_per_hour INTEGER NOT NULL DEFAULT 20,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (agent_id, window_start)
	);

	CREATE TABLE IF NOT EXISTS agent_usage_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		agent_id TEXT NOT NULL REFERENCES agents(id) ON DELETE CASCADE,
		api_key_id TEXT NOT NULL DEFAULT '',
		action_type TEXT NOT NULL,
		tokens_used INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_usage_agent ON agent_usage_logs(agent_id);

	CREATE TABLE IF NOT EXISTS api_keys (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		encrypted_key TEXT NOT NULL,
		key_fingerprint TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		usage_count INTEGER NOT NULL DEFAULT 0,
		last_used DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_api_keys_user ON api_keys(user_id);
`
