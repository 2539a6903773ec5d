package kimicheck

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

// Names of the checks, in the order they run.
const (
	CheckNameCredential       = "API key validation"
	CheckNameChat             = "Basic chat"
	CheckNameStructuredOutput = "Structured output probe"
)

// Preview lengths, in characters, of the replies printed by the chat checks.
const (
	chatPreviewLen       = 100
	structuredPreviewLen = 150
)

var basicConversation = []Message{
	{Role: ChatRoleSystem, Content: "You are a helpful assistant."},
	{Role: ChatRoleUser, Content: "Hello, please introduce yourself in one sentence."},
}

const structuredOutputPrompt = `You are an expert at reading traditional Chinese medicine prescriptions. Analyse the following prescription:

Prescription: Angelica sinensis 10g, Ligusticum chuanxiong 6g, White peony root 10g, Prepared rehmannia 15g

Return the herbs as JSON.`

var errMissingModelList = errors.New(`response has no "data" list of models`)

// Check is a single validation step with a boolean outcome. Run returns
// nil when the check passed.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// Checker runs checks against the API, printing a human readable
// diagnostic for each of them to Out.
type Checker struct {
	Client openai.Client
	Model  string
	Out    io.Writer

	// Render, if set, formats reply previews (e.g. as markdown).
	Render func(string) string

	// Per-request deadlines, ListTimeout and ChatTimeout if zero.
	ListTimeout time.Duration
	ChatTimeout time.Duration

	Logger *slog.Logger
}

// Checks returns the checks in the order they must run. None of them
// depends on the outcome of another.
func (c *Checker) Checks() []Check {
	return []Check{
		{Name: CheckNameCredential, Run: c.CheckCredential},
		{Name: CheckNameChat, Run: c.CheckChat},
		{Name: CheckNameStructuredOutput, Run: c.CheckStructuredOutput},
	}
}

// CheckCredential lists the models available to the key, which only
// succeeds if the API accepts it.
func (c *Checker) CheckCredential(ctx context.Context) error {
	c.heading("Test 1: " + CheckNameCredential)

	timeout := cmp.Or(c.ListTimeout, ListTimeout)
	c.logger().DebugContext(ctx, "listing models", "timeout", timeout)

	page, err := c.Client.Models.List(ctx, option.WithRequestTimeout(timeout))
	if err := classify(err); err != nil {
		c.failure("Request failed", err)
		return err
	}

	// The decoder is lenient, a body without a "data" array still decodes.
	if raw := strings.TrimSpace(page.JSON.Data.Raw()); !strings.HasPrefix(raw, "[") {
		err := &DecodeError{Err: errMissingModelList}
		c.failure("Request failed", err)
		return err
	}

	fmt.Fprintln(c.Out, styleSuccess.Render("✅ API key is valid!"))
	fmt.Fprintln(c.Out, "   Available models:")
	for _, m := range page.Data {
		fmt.Fprintf(c.Out, "   - %s\n", m.ID)
	}

	return nil
}

// CheckChat sends a short two turn conversation and expects a reply.
func (c *Checker) CheckChat(ctx context.Context) error {
	c.heading("Test 2: " + CheckNameChat)

	reply, err := c.chat(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model()),
		Messages:    newMessageUnion(basicConversation),
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(100),
	})
	if err != nil {
		c.failure("Chat failed", err)
		return err
	}

	fmt.Fprintln(c.Out, styleSuccess.Render("✅ Chat succeeded!"))
	fmt.Fprintf(c.Out, "   Reply: %s\n", c.preview(reply, chatPreviewLen))

	return nil
}

// CheckStructuredOutput asks for a JSON formatted reply. Only the presence
// of a reply is verified, not that it is valid JSON.
func (c *Checker) CheckStructuredOutput(ctx context.Context) error {
	c.heading("Test 3: " + CheckNameStructuredOutput)

	reply, err := c.chat(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model()),
		Messages: newMessageUnion([]Message{
			{Role: ChatRoleUser, Content: structuredOutputPrompt},
		}),
		Temperature: openai.Float(0.1),
		MaxTokens:   openai.Int(1000),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		c.failure("Structured output probe failed", err)
		return err
	}

	fmt.Fprintln(c.Out, styleSuccess.Render("✅ Structured output probe succeeded!"))
	fmt.Fprintf(c.Out, "   Reply preview: %s\n", c.preview(reply, structuredPreviewLen))

	return nil
}

func (c *Checker) chat(ctx context.Context, params openai.ChatCompletionNewParams) (string, error) {
	timeout := cmp.Or(c.ChatTimeout, ChatTimeout)
	c.logger().DebugContext(ctx, "creating chat completion",
		"model", params.Model,
		"messages", len(params.Messages),
		"timeout", timeout,
	)

	resp, err := c.Client.Chat.Completions.New(ctx, params, option.WithRequestTimeout(timeout))
	if err := classify(err); err != nil {
		return "", err
	}

	return replyContent(resp)
}

// replyContent extracts the content of the first choice's message.
func replyContent(resp *openai.ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", ErrNoReply
	}

	msg := resp.Choices[0].Message
	if raw := msg.JSON.Content.Raw(); raw == "" || raw == "null" {
		return "", ErrNoReply
	}

	return msg.Content, nil
}

func (c *Checker) heading(title string) {
	fmt.Fprintln(c.Out)
	fmt.Fprintln(c.Out, rule)
	fmt.Fprintln(c.Out, styleBold.Render(title))
	fmt.Fprintln(c.Out, rule)
}

// failure prints a diagnostic for err, specific to its kind.
func (c *Checker) failure(what string, err error) {
	var (
		statusErr  *StatusError
		networkErr *NetworkError
		decodeErr  *DecodeError
	)

	switch {
	case errors.Is(err, ErrAuthentication):
		fmt.Fprintln(c.Out, styleFailure.Render("❌ Invalid API key (HTTP 401)"))
		fmt.Fprintln(c.Out, "   Please check:")
		fmt.Fprintf(c.Out, "   1. the API key starts with %q\n", CredentialPrefix)
		fmt.Fprintln(c.Out, "   2. the API key is complete (no missing characters)")
		fmt.Fprintln(c.Out, "   3. the API key has not expired")
	case errors.As(err, &statusErr):
		fmt.Fprintln(c.Out, styleFailure.Render(fmt.Sprintf("❌ %s: HTTP %d", what, statusErr.Code)))
		if statusErr.Body != "" {
			fmt.Fprintf(c.Out, "   Response: %s\n", statusErr.Body)
		}
	case errors.As(err, &networkErr):
		fmt.Fprintln(c.Out, styleFailure.Render(fmt.Sprintf("❌ Network error: %v", networkErr.Err)))
	case errors.Is(err, ErrNoReply):
		fmt.Fprintln(c.Out, styleFailure.Render(fmt.Sprintf("❌ %s: %v", what, err)))
	case errors.As(err, &decodeErr):
		fmt.Fprintln(c.Out, styleFailure.Render(fmt.Sprintf("❌ %s: malformed response: %v", what, decodeErr.Err)))
	default:
		fmt.Fprintln(c.Out, styleFailure.Render(fmt.Sprintf("❌ %s: %v", what, err)))
	}
}

func (c *Checker) preview(reply string, n int) string {
	p := truncate(reply, n)
	if c.Render != nil {
		return strings.TrimSpace(c.Render(p))
	}
	return p
}

func (c *Checker) model() string {
	if c.Model == "" {
		return DefaultModel
	}
	return c.Model
}

func (c *Checker) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// truncate shortens s to at most n characters, followed by an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}
