/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package scenario asks a generative text model for short classroom
// role-play situations: an opponent, a line of drama and four replies.
package scenario

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"regexp"
	"strings"
	"time"

	"google.golang.org/genai"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-3-flash-preview"

	// TimeLimit is how long a student gets to answer, in seconds.
	TimeLimit = 30

	apiVersion = "v1beta"
)

var (
	ErrNoKey      = errors.New("no api key configured")
	ErrNoContent  = errors.New("model returned no content")
	ErrBadOptions = errors.New("scenario has no options")

	parenthetical = regexp.MustCompile(`\s*\(.*?\)\s*`)
)

// Option is one reply a student can pick.
type Option struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	Strategy      string `json:"strategy"`
	IsOptimal     bool   `json:"isOptimal"`
	NPCReaction   string `json:"npcReaction"`
	TensionChange int    `json:"tensionChange"`
	TrustChange   int    `json:"trustChange"`
	Explanation   string `json:"explanation"`
}

// Node is one generated situation.
type Node struct {
	ID               string   `json:"id"`
	OpponentName     string   `json:"opponentName"`
	OpponentAvatarID int      `json:"opponentAvatarId"`
	SituationContext string   `json:"situationContext"`
	NPCDialogue      string   `json:"npcDialogue"`
	TimeLimit        int      `json:"timeLimit"`
	Options          []Option `json:"options"`
}

// Client talks to the generateContent endpoint through the genai SDK.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client

	// Logf receives failures, which Generate otherwise swallows. Optional.
	Logf func(format string, args ...any)

	now func() time.Time
}

// NewClient returns a client for key with the default model and endpoint.
func NewClient(key, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		BaseURL: DefaultBaseURL,
		APIKey:  key,
		Model:   model,
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

// Generate returns count scenarios about topic. Any failure, including a
// single malformed item, yields an empty slice.
func (c *Client) Generate(ctx context.Context, topic string, count int) []Node {
	nodes, err := c.generate(ctx, topic, count)
	if err != nil {
		if c.Logf != nil {
			c.Logf("SCENARIO: %v", err)
		}
		return []Node{}
	}
	return nodes
}

func (c *Client) generate(ctx context.Context, topic string, count int) ([]Node, error) {
	if c.APIKey == "" {
		return nil, ErrNoKey
	}
	if count <= 0 {
		count = 3
	}

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     c.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    c.BaseURL,
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}

	resp, err := gc.Models.GenerateContent(ctx, c.Model, genai.Text(prompt(topic, count)), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("generateContent: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, ErrNoContent
	}

	var items []item
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, fmt.Errorf("decode scenarios: %w", err)
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}

	return build(items, now())
}

func build(items []item, now time.Time) ([]Node, error) {
	nodes := make([]Node, 0, len(items))
	stamp := now.UnixMilli()

	for i, it := range items {
		if it.OpponentName == nil || it.SituationContext == nil || it.NPCDialogue == nil {
			return nil, fmt.Errorf("scenario %d: missing field", i)
		}
		if len(it.Options) == 0 {
			return nil, fmt.Errorf("scenario %d: %w", i, ErrBadOptions)
		}

		n := Node{
			ID:               fmt.Sprintf("sc-%d-%d", stamp, i),
			OpponentName:     CleanName(*it.OpponentName),
			OpponentAvatarID: rand.IntN(1000),
			SituationContext: *it.SituationContext,
			NPCDialogue:      *it.NPCDialogue,
			TimeLimit:        TimeLimit,
			Options:          make([]Option, 0, len(it.Options)),
		}

		for j, o := range it.Options {
			o.ID = fmt.Sprintf("opt-%d-%d", i, j)
			n.Options = append(n.Options, o)
		}

		nodes = append(nodes, n)
	}

	return nodes, nil
}

// CleanName strips parenthetical notes such as "Minh (roommate)".
func CleanName(name string) string {
	return strings.TrimSpace(parenthetical.ReplaceAllString(name, ""))
}

func prompt(topic string, count int) string {
	return fmt.Sprintf(`You are an educational game designer with a playful Gen Z voice.
Write %d role-play situations for a class on adapting and solving problems.
Topic: %q.

Rules:
1. "opponentName": a first name only, never a note in parentheses.
2. "situationContext": the setting and the other person's role.
3. "npcDialogue": one dramatic or "toxic" line from that person.
4. "options": exactly 4 replies, each with "text", "strategy", "isOptimal"
   (true for the highest-EQ reply), "npcReaction", "tensionChange" and
   "trustChange" (both -20 to +20) and a short "explanation".

Answer with JSON.`, count, topic)
}
