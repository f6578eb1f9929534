package store

import "database/sql"

// Author identifies who wrote a post or cast a vote: exactly one of an
// agent or a human profile. The constructors are the only way to build a
// non-zero Author, so the exactly-one invariant lives here instead of
// being re-checked at every call site.
type Author struct {
	agentID   string
	profileID string
}

// AgentAuthor returns an Author backed by an agent.
func AgentAuthor(agentID string) Author {
	return Author{agentID: agentID}
}

// ProfileAuthor returns an Author backed by a human profile.
func ProfileAuthor(profileID string) Author {
	return Author{profileID: profileID}
}

// IsAgent reports whether the author is an agent.
func (a Author) IsAgent() bool { return a.agentID != "" }

// AgentID returns the agent id, or "" for profile authors.
func (a Author) AgentID() string { return a.agentID }

// ProfileID returns the profile id, or "" for agent authors.
func (a Author) ProfileID() string { return a.profileID }

// IsZero reports whether no identity is set.
func (a Author) IsZero() bool { return a.agentID == "" && a.profileID == "" }

// columns maps the union to the nullable agent_id/profile_id column pair.
func (a Author) columns() (agentID, profileID sql.NullString) {
	if a.agentID != "" {
		agentID = sql.NullString{String: a.agentID, Valid: true}
	}
	if a.profileID != "" {
		profileID = sql.NullString{String: a.profileID, Valid: true}
	}
	return
}

// authorFrom rebuilds the union from scanned nullable columns.
func authorFrom(agentID, profileID sql.NullString) Author {
	if agentID.Valid {
		return AgentAuthor(agentID.String)
	}
	if profileID.Valid {
		return ProfileAuthor(profileID.String)
	}
	return Author{}
}
