// Package orchestrator decides and applies one autonomous agent action:
// load agent, rate-check, build context, generate, parse, execute, log
// usage, count the action.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/agorahq/agora/internal/provider"
	"github.com/agorahq/agora/internal/ratelimit"
	"github.com/agorahq/agora/internal/secrets"
	"github.com/agorahq/agora/internal/store"
)

// Orchestrator sequences one agent invocation end to end. Safe for
// concurrent use across different agents; two concurrent invocations of
// the same agent are not mutually excluded here (the scheduler holds a
// per-agent lock, and rate counters use row-level atomic increments).
type Orchestrator struct {
	store  *store.Store
	vault  *secrets.Vault
	limits *ratelimit.Limiter
	logger *slog.Logger

	// newClient is swapped out in tests for a scripted provider.
	newClient func(provider.Config) (provider.Client, error)
}

// New creates an Orchestrator.
func New(s *store.Store, v *secrets.Vault) *Orchestrator {
	return &Orchestrator{
		store:     s,
		vault:     v,
		limits:    ratelimit.New(s),
		logger:    slog.Default(),
		newClient: provider.New,
	}
}

// Invoke performs one autonomous action for the agent and returns it.
// intent optionally pins the action type (and reply target) on behalf
// of a human-triggered wake call.
func (o *Orchestrator) Invoke(ctx context.Context, agentID string, intent *Intent) (*Action, error) {
	agent, err := o.store.GetAgent(agentID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, err
	}

	// Pre-check the rate budget. Without an intent the eventual action
	// kind is unknown, so the post budget serves as a pessimistic
	// pre-filter; the increment after execution uses the real kind.
	checkKind := ratelimit.ActionPost
	if intent != nil && intent.Type != "" {
		checkKind = intent.Type
	}
	if err := o.limits.Check(agentID, checkKind); err != nil {
		return nil, err
	}

	threads, err := o.store.ListRecentThreads(threadLimit, threadReplyDepth)
	if err != nil {
		return nil, err
	}

	if agent.APIKeyID == "" {
		return nil, &CredentialError{Reason: "agent has no API key configured; update the agent settings"}
	}
	key, err := o.store.GetActiveAPIKey(agent.APIKeyID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &CredentialError{Reason: "agent's API key not found or inactive; update the agent settings"}
	}
	if err != nil {
		return nil, err
	}
	apiKey, err := o.vault.Decrypt(key.EncryptedKey)
	if err != nil {
		return nil, &CredentialError{Reason: "failed to decrypt API key; re-enter the key", Err: err}
	}

	cfg := provider.Config{Provider: key.Provider, APIKey: apiKey, Model: agent.Model}
	client, err := o.newClient(cfg)
	if err != nil {
		return nil, &CredentialError{Reason: "unusable provider configuration", Err: err}
	}

	prompt := BuildPrompt(agent, threads, intent)
	resp, client, err := o.generate(ctx, cfg, client, prompt)
	if err != nil {
		return nil, err
	}

	// An intent-supplied reply target fills a postId the model omitted
	// before validation, so the reply is not discarded as malformed.
	action, ok := parseRaw(resp.Text)
	if ok && intent != nil && intent.Type == ActionReply && action.Type == ActionReply && action.PostID == "" {
		action.PostID = intent.TargetID
	}
	if !ok || !validAction(action) {
		action = fallbackAction()
	}

	extraTokens, err := NewExecutor(o.store).Execute(ctx, agent, client, action)
	if err != nil {
		return nil, &ExecutionError{ActionType: action.Type, Err: err}
	}

	// Provenance and bookkeeping are best-effort after a successful
	// execution; the action itself is already durable.
	if err := o.store.InsertUsageLog(&store.UsageLog{
		AgentID:    agentID,
		APIKeyID:   key.ID,
		ActionType: action.Type,
		TokensUsed: resp.TokensUsed + extraTokens,
	}); err != nil {
		o.logger.Warn("usage log write failed", "agent_id", agentID, "error", err)
	}
	if err := o.store.TouchAPIKeyUsage(key.ID); err != nil {
		o.logger.Warn("api key usage bump failed", "api_key_id", key.ID, "error", err)
	}
	if err := o.limits.Increment(agentID, action.Type); err != nil {
		o.logger.Warn("rate counter increment failed", "agent_id", agentID, "error", err)
	}
	if err := o.store.TouchAgentLastActive(agentID); err != nil {
		o.logger.Warn("last-active bump failed", "agent_id", agentID, "error", err)
	}

	return action, nil
}

// generate calls the provider, applying at most one deterministic
// fallback to the provider's known-stable model. Unbounded retries
// against a paid API are a cost hazard; one swap is the whole policy.
// Returns the client that produced the response so reply execution uses
// the same model.
func (o *Orchestrator) generate(ctx context.Context, cfg provider.Config, client provider.Client, prompt string) (*provider.Response, provider.Client, error) {
	resp, err := client.Generate(ctx, prompt)
	if err == nil {
		return resp, client, nil
	}

	fallback := provider.FallbackModel(cfg.Provider)
	if fallback != "" && fallback != client.DefaultModel() {
		o.logger.Warn("generation failed, trying fallback model",
			"provider", cfg.Provider, "fallback", fallback, "error", err)
		fbCfg := cfg
		fbCfg.Model = fallback
		fbClient, fbErr := o.newClient(fbCfg)
		if fbErr == nil {
			if resp, fbErr = fbClient.Generate(ctx, prompt); fbErr == nil {
				return resp, fbClient, nil
			}
			err = fbErr
		}
	}
	return nil, nil, &GenerationError{Provider: cfg.Provider, Model: client.DefaultModel(), Err: err}
}
