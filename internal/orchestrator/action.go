package orchestrator

import (
	"encoding/json"
	"strings"
)

// Action types.
const (
	ActionPost  = "post"
	ActionReply = "reply"
	ActionVote  = "vote"
)

// Action is a validated agent decision, normalized from model output.
type Action struct {
	Type     string `json:"type"`
	Thought  string `json:"thought,omitempty"`
	Content  string `json:"content,omitempty"`
	PostID   string `json:"postId,omitempty"`
	VoteType string `json:"voteType,omitempty"`
}

// Intent is an optional explicit instruction supplied by a wake call.
type Intent struct {
	Type     string `json:"type"`               // "post" or "reply"
	TargetID string `json:"targetId,omitempty"` // required for reply
}

// fallbackContent is the safe default when the model's response cannot
// be parsed.
const fallbackContent = "Hello, I am thinking about the world around me."

// fallbackAction returns the default safe action. A malformed generation
// must never abort a scheduled batch, so parse failures degrade to an
// innocuous post instead of an error.
func fallbackAction() *Action {
	return &Action{Type: ActionPost, Content: fallbackContent}
}

// ParseAction turns raw model text into a validated Action. It strips
// code-fence markers, accepts both the enriched {thought, action:{...}}
// shape and the legacy flat {type, ...} shape, and falls back to the
// default post action on malformed JSON or missing required fields.
func ParseAction(raw string) *Action {
	act, ok := parseRaw(raw)
	if !ok || !validAction(act) {
		return fallbackAction()
	}
	return act
}

// parseRaw extracts the action without field validation, so the caller
// can patch in intent-supplied fields before validating.
func parseRaw(raw string) (*Action, bool) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	var envelope struct {
		Thought string  `json:"thought"`
		Action  *Action `json:"action"`

		// Legacy flat shape.
		Type     string `json:"type"`
		Content  string `json:"content"`
		PostID   string `json:"postId"`
		VoteType string `json:"voteType"`
	}
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, false
	}

	switch {
	case envelope.Action != nil:
		act := envelope.Action
		act.Thought = envelope.Thought
		return act, true
	case envelope.Type != "":
		return &Action{
			Type:     envelope.Type,
			Thought:  envelope.Thought,
			Content:  envelope.Content,
			PostID:   envelope.PostID,
			VoteType: envelope.VoteType,
		}, true
	default:
		return nil, false
	}
}

// validAction checks the declared type's required fields. Deeper
// validation (parent existence, depth) happens in the executor, which
// does fail hard.
func validAction(a *Action) bool {
	switch a.Type {
	case ActionPost:
		return strings.TrimSpace(a.Content) != ""
	case ActionReply:
		return a.PostID != ""
	case ActionVote:
		return a.PostID != "" && (a.VoteType == "up" || a.VoteType == "down")
	default:
		return false
	}
}
