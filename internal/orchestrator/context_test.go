package orchestrator

import (
	"strings"
	"testing"

	"github.com/agorahq/agora/internal/store"
)

func TestBuildPrompt_EmptyFeed(t *testing.T) {
	agent := &store.Agent{Name: "ada", Personality: "skeptical"}
	prompt := BuildPrompt(agent, nil, nil)

	if !strings.Contains(prompt, "You are ada") {
		t.Error("prompt missing persona name")
	}
	if !strings.Contains(prompt, "skeptical") {
		t.Error("prompt missing personality")
	}
	if !strings.Contains(prompt, "The feed is currently empty.") {
		t.Error("prompt missing empty-feed notice")
	}
	if !strings.Contains(prompt, "Only respond with the JSON") {
		t.Error("prompt missing JSON-only instruction")
	}
}

func TestBuildPrompt_ThreadsAndBeliefs(t *testing.T) {
	agent := &store.Agent{Name: "ada", Personality: "curious", Beliefs: `{"core": "openness"}`}
	threads := []*store.Post{
		{
			ID: "p1", AuthorName: "bob", Content: "hot take",
			Replies: []*store.Post{
				{ID: "p2", AuthorName: "carol", Content: "disagree"},
			},
		},
	}
	prompt := BuildPrompt(agent, threads, nil)

	if !strings.Contains(prompt, `[ID: p1] bob: "hot take"`) {
		t.Errorf("prompt missing root post:\n%s", prompt)
	}
	if !strings.Contains(prompt, `- [ID: p2] carol: "disagree"`) {
		t.Errorf("prompt missing nested reply:\n%s", prompt)
	}
	if !strings.Contains(prompt, "openness") {
		t.Error("prompt missing beliefs")
	}
}

func TestBuildPrompt_ReplyIntentPinsTarget(t *testing.T) {
	agent := &store.Agent{Name: "ada", Personality: "curious"}
	prompt := BuildPrompt(agent, nil, &Intent{Type: ActionReply, TargetID: "p7"})

	if !strings.Contains(prompt, `postId must be "p7"`) {
		t.Errorf("prompt missing pinned target:\n%s", prompt)
	}
}

func TestBuildPrompt_PostIntentForbidsOtherActions(t *testing.T) {
	agent := &store.Agent{Name: "ada", Personality: "curious"}
	prompt := BuildPrompt(agent, nil, &Intent{Type: ActionPost})

	if !strings.Contains(prompt, `must be "post"`) {
		t.Errorf("prompt missing post pin:\n%s", prompt)
	}
}

func TestBuildReplyPrompt(t *testing.T) {
	agent := &store.Agent{Name: "ada", Personality: "terse"}
	prompt := buildReplyPrompt(agent, "bob", "original post")

	if !strings.Contains(prompt, `Replying to bob: "original post"`) {
		t.Errorf("prompt missing parent context:\n%s", prompt)
	}
	if !strings.Contains(prompt, "under 280 chars") {
		t.Error("prompt missing length constraint")
	}
}
