// Command mock-backend runs a deterministic OpenAI-compatible server for
// local development and demos. It answers Chat Completions and Images
// requests with predictable content: briefs for the brief writer, JSON
// verdicts for the reviewer, numbered lists for naming and slogan prompts,
// and placeholder image URLs.
//
// Configuration:
//
//	MOCK_PORT    - Listen port (default: 9090)
//	MOCK_API_KEY - Required bearer token (default: any non-empty token)
//	MOCK_SCORES  - Comma-separated reviewer scores, cycled per review (default: "8")
//
// Prompts containing "trigger-error" fail with 500 and prompts containing
// "trigger-quota" fail with 429 insufficient_quota.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	b := &backend{
		apiKey: os.Getenv("MOCK_API_KEY"),
		scores: parseScores(os.Getenv("MOCK_SCORES")),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", b.authorized(b.handleChatCompletions))
	mux.HandleFunc("POST /v1/images/generations", b.authorized(b.handleImages))
	mux.HandleFunc("GET /v1/models", b.authorized(handleModels))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port, "scores", b.scores)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// Markers identifying the gateway's brief writer and reviewer prompts.
const (
	briefWriterMarker = "creative director"
	reviewerMarker    = "creative reviewer"
)

type backend struct {
	apiKey  string
	scores  []int
	reviews atomic.Int64
	images  atomic.Int64
}

// --- Request types ---

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type imageRequest struct {
	Prompt string `json:"prompt"`
	Model  string `json:"model"`
	Size   string `json:"size"`
	N      int    `json:"n"`
}

// --- Response types ---

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int     `json:"index"`
	Message      chatMsg `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type chatMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type imageResponse struct {
	Created int64       `json:"created"`
	Data    []imageData `json:"data"`
}

type imageData struct {
	URL           string `json:"url"`
	RevisedPrompt string `json:"revised_prompt,omitempty"`
}

// --- Handlers ---

func (b *backend) authorized(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" || (b.apiKey != "" && token != b.apiKey) {
			writeError(w, http.StatusUnauthorized, "invalid_api_key", "Incorrect API key provided.")
			return
		}
		next(w, r)
	}
}

func (b *backend) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body")
		return
	}

	system, user := messageText(&req, "system"), messageText(&req, "user")
	if failed := triggerFailure(w, user); failed {
		return
	}

	var text string
	switch {
	case strings.Contains(system, briefWriterMarker):
		text = briefFor(user)
	case strings.Contains(system, reviewerMarker):
		text = b.verdict()
	default:
		text = contentFor(user)
	}

	model := req.Model
	if model == "" {
		model = "mock-model"
	}
	promptTokens := len(strings.Fields(system + " " + user))
	completionTokens := len(strings.Fields(text))

	writeJSON(w, chatResponse{
		ID:      "chatcmpl-mock",
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   model,
		Choices: []chatChoice{{
			Message:      chatMsg{Role: "assistant", Content: text},
			FinishReason: "stop",
		}},
		Usage: chatUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	})
}

func (b *backend) handleImages(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request_error", "prompt is required")
		return
	}
	if failed := triggerFailure(w, req.Prompt); failed {
		return
	}

	n := b.images.Add(1)
	size := req.Size
	if size == "" {
		size = "1024x1024"
	}
	writeJSON(w, imageResponse{
		Created: time.Now().Unix(),
		Data: []imageData{{
			URL:           fmt.Sprintf("https://mock.invalid/images/%d-%s.png", n, size),
			RevisedPrompt: req.Prompt,
		}},
	})
}

func handleModels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"id": "mock-model", "object": "model", "owned_by": "brandsmith-mock"},
			{"id": "mock-image", "object": "model", "owned_by": "brandsmith-mock"},
		},
	})
}

// --- Content ---

func briefFor(instruction string) string {
	subject := firstLine(instruction)
	for _, line := range strings.Split(instruction, "\n") {
		if rest, ok := strings.CutPrefix(line, "Request: "); ok {
			subject = firstLine(rest)
			break
		}
	}
	return "Creative brief\n\n" +
		"Objective: " + subject + "\n" +
		"Audience: modern, design-aware customers\n" +
		"Tone: confident, warm and precise\n" +
		"Constraints: simple shapes, limited palette, legible at small sizes\n" +
		"Deliverable: one polished concept ready for review"
}

func (b *backend) verdict() string {
	n := b.reviews.Add(1) - 1
	score := b.scores[int(n)%len(b.scores)]
	improvements := []string{}
	if score < 5 {
		improvements = []string{"align more closely with the requested tone", "simplify the composition"}
	}
	out, _ := json.Marshal(map[string]any{
		"score":        score,
		"feedback":     fmt.Sprintf("Mock review scored %d/10.", score),
		"strengths":    []string{"clear concept"},
		"improvements": improvements,
	})
	return string(out)
}

func contentFor(prompt string) string {
	lower := strings.ToLower(prompt)
	switch {
	case strings.Contains(lower, "slogan"), strings.Contains(lower, "tagline"):
		return "Here are five slogans:\n1. Brewed for the bold\n2. Every cup, a fresh start\n" +
			"3. Small beans, big mornings\n4. Roasted with intent\n5. Your daily ritual, refined"
	case strings.Contains(lower, "name"):
		return "1. Lumora\n2. Brightwell\n3. Kestrel & Co\n4. Northbean\n5. Fathom"
	case strings.Contains(lower, "headline"):
		return "1. Design that speaks first\n2. Built to be remembered\n3. The brand your customers were waiting for"
	default:
		return "Crafted with care for people who notice the details. " +
			"Our story starts with a simple promise: make every touchpoint feel intentional."
	}
}

// --- Helpers ---

// triggerFailure writes a scripted failure when text asks for one.
func triggerFailure(w http.ResponseWriter, text string) bool {
	switch {
	case strings.Contains(text, "trigger-quota"):
		writeError(w, http.StatusTooManyRequests, "insufficient_quota",
			"You exceeded your current quota, please check your plan and billing details.")
		return true
	case strings.Contains(text, "trigger-error"):
		writeError(w, http.StatusInternalServerError, "server_error", "The server had an error while processing your request.")
		return true
	}
	return false
}

func messageText(req *chatRequest, role string) string {
	var parts []string
	for _, msg := range req.Messages {
		if msg.Role != role {
			continue
		}
		switch v := msg.Content.(type) {
		case string:
			parts = append(parts, v)
		case []any:
			for _, part := range v {
				if m, ok := part.(map[string]any); ok {
					if text, ok := m["text"].(string); ok {
						parts = append(parts, text)
					}
				}
			}
		}
	}
	return strings.Join(parts, "\n")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > 160 {
		s = s[:160]
	}
	return s
}

func parseScores(s string) []int {
	var scores []int
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil || n < 0 || n > 10 {
			continue
		}
		scores = append(scores, n)
	}
	if len(scores) == 0 {
		return []int{8}
	}
	return scores
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    code,
			"code":    code,
		},
	})
}
