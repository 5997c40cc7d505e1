package model

import (
	"strings"
	"testing"

	"skycast/weather"
)

func newTestCall(location string) ToolCall {
	return ToolCall{
		ID:        "call-1",
		Name:      WeatherToolName,
		Arguments: map[string]any{"location": location},
	}
}

func TestNewConversationSeedsWelcome(t *testing.T) {
	c := NewConversation()

	if len(c.Messages) != 1 {
		t.Fatalf("expected 1 seeded message, got %d", len(c.Messages))
	}
	if c.Messages[0].Role != RoleModel {
		t.Errorf("welcome message role = %q, want %q", c.Messages[0].Role, RoleModel)
	}
	if !strings.Contains(c.Messages[0].Content, "SkyCast") {
		t.Errorf("welcome message content = %q, want greeting", c.Messages[0].Content)
	}
	if c.State() != StateIdle {
		t.Errorf("initial state = %v, want StateIdle", c.State())
	}
}

func TestSubmitAppendsUserAndPlaceholder(t *testing.T) {
	c := NewConversation()

	id, ok := c.Submit("What's the weather in London?")
	if !ok {
		t.Fatal("Submit() rejected valid input in idle state")
	}

	if len(c.Messages) != 3 {
		t.Fatalf("expected 3 messages (welcome, user, placeholder), got %d", len(c.Messages))
	}

	user := c.Messages[1]
	if user.Role != RoleUser || user.Content != "What's the weather in London?" {
		t.Errorf("user message = %+v", user)
	}

	placeholder := c.Messages[2]
	if placeholder.ID != id {
		t.Errorf("Submit() returned id %q, placeholder has %q", id, placeholder.ID)
	}
	if placeholder.Role != RoleModel || !placeholder.Streaming || placeholder.Content != "" {
		t.Errorf("placeholder = %+v, want empty streaming model message", placeholder)
	}

	if !c.IsStreaming() {
		t.Error("state after Submit() should be streaming")
	}
}

func TestSubmitRejectedOutsideIdle(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(c *Conversation)
	}{
		{
			name: "while streaming",
			prepare: func(c *Conversation) {
				c.Submit("first")
			},
		},
		{
			name: "while awaiting confirmation",
			prepare: func(c *Conversation) {
				c.Submit("first")
				c.RequireConfirmation(newTestCall("London"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConversation()
			tt.prepare(c)
			before := len(c.Messages)

			if _, ok := c.Submit("second"); ok {
				t.Error("Submit() accepted input outside idle state")
			}
			if len(c.Messages) != before {
				t.Errorf("rejected Submit() changed the log: %d -> %d messages", before, len(c.Messages))
			}
		})
	}
}

func TestSubmitRejectsBlankInput(t *testing.T) {
	c := NewConversation()

	for _, input := range []string{"", "   ", "\n\t"} {
		if _, ok := c.Submit(input); ok {
			t.Errorf("Submit(%q) accepted blank input", input)
		}
	}
	if c.State() != StateIdle {
		t.Error("blank input changed state")
	}
}

func TestAppendChunkPreservesOrder(t *testing.T) {
	c := NewConversation()
	id, _ := c.Submit("weather?")

	for _, chunk := range []string{"Lon", "don is ", "sunny"} {
		if !c.AppendChunk(id, chunk) {
			t.Fatalf("AppendChunk(%q) failed", chunk)
		}
	}

	got := c.Messages[len(c.Messages)-1].Content
	if got != "London is sunny" {
		t.Errorf("accumulated content = %q, want %q", got, "London is sunny")
	}
}

func TestAppendChunkIgnoredAfterFinish(t *testing.T) {
	c := NewConversation()
	id, _ := c.Submit("weather?")
	c.AppendChunk(id, "done")
	c.FinishStream(id)

	if c.AppendChunk(id, " extra") {
		t.Error("AppendChunk() applied to a finished message")
	}
	if got := c.Messages[len(c.Messages)-1].Content; got != "done" {
		t.Errorf("content = %q, want %q", got, "done")
	}
	if c.State() != StateIdle {
		t.Error("FinishStream() did not return to idle")
	}
}

func TestRequireConfirmationReplacesEmptyPlaceholder(t *testing.T) {
	c := NewConversation()
	c.Submit("weather in London?")
	countBefore := len(c.Messages)

	id, ok := c.RequireConfirmation(newTestCall("London"))
	if !ok {
		t.Fatal("RequireConfirmation() failed in streaming state")
	}

	// The empty placeholder is dropped and the confirmation takes its slot
	if len(c.Messages) != countBefore {
		t.Errorf("message count = %d, want %d (placeholder swapped, not appended)", len(c.Messages), countBefore)
	}

	conf := c.Messages[len(c.Messages)-1]
	if conf.ID != id {
		t.Errorf("confirmation id mismatch: %q vs %q", conf.ID, id)
	}
	if conf.Content != "Do you want me to show the weather data for London?" {
		t.Errorf("confirmation content = %q", conf.Content)
	}
	if conf.ToolCall == nil || !conf.AwaitingConfirmation {
		t.Error("confirmation message must hold the pending call")
	}
	if !c.IsAwaitingToolConfirmation() {
		t.Error("state should be awaiting confirmation")
	}
}

func TestRequireConfirmationKeepsPartialText(t *testing.T) {
	c := NewConversation()
	id, _ := c.Submit("weather in London?")
	c.AppendChunk(id, "Let me check. ")
	countBefore := len(c.Messages)

	c.RequireConfirmation(newTestCall("London"))

	// Partial text survives as a finished message; confirmation is appended
	if len(c.Messages) != countBefore+1 {
		t.Fatalf("message count = %d, want %d", len(c.Messages), countBefore+1)
	}
	partial := c.Messages[len(c.Messages)-2]
	if partial.Content != "Let me check. " || partial.Streaming {
		t.Errorf("partial message = %+v, want finished text", partial)
	}
}

func TestRequireConfirmationMissingLocationFallback(t *testing.T) {
	c := NewConversation()
	c.Submit("weather?")

	call := ToolCall{ID: "x", Name: WeatherToolName, Arguments: map[string]any{}}
	id, ok := c.RequireConfirmation(call)
	if !ok {
		t.Fatal("RequireConfirmation() failed")
	}

	conf := c.Messages[len(c.Messages)-1]
	if conf.ID != id {
		t.Fatal("confirmation not last message")
	}
	if conf.Content != "Do you want me to show the weather data for the requested location?" {
		t.Errorf("fallback content = %q", conf.Content)
	}
}

func TestConfirmRewritesToFetchingNotice(t *testing.T) {
	c := NewConversation()
	c.Submit("weather in London?")
	id, _ := c.RequireConfirmation(newTestCall("London"))

	call, ok := c.Confirm(id)
	if !ok {
		t.Fatal("Confirm() failed on pending confirmation")
	}
	if loc, _ := call.Location(); loc != "London" {
		t.Errorf("returned call location = %q, want London", loc)
	}

	msg := c.Messages[len(c.Messages)-1]
	if msg.Content != "Checking weather for London..." {
		t.Errorf("content = %q", msg.Content)
	}
	if msg.AwaitingConfirmation || msg.ToolCall != nil {
		t.Error("resolved confirmation still holds pending call state")
	}
	if !c.IsStreaming() {
		t.Error("state after Confirm() should be streaming")
	}
}

func TestCancelRewritesToCancellationNotice(t *testing.T) {
	c := NewConversation()
	c.Submit("weather in London?")
	id, _ := c.RequireConfirmation(newTestCall("London"))

	call, ok := c.Cancel(id)
	if !ok {
		t.Fatal("Cancel() failed on pending confirmation")
	}
	if call.ID != "call-1" {
		t.Errorf("returned call id = %q", call.ID)
	}

	msg := c.Messages[len(c.Messages)-1]
	if msg.Content != "❌ Request cancelled." {
		t.Errorf("content = %q", msg.Content)
	}
	if msg.AwaitingConfirmation || msg.ToolCall != nil {
		t.Error("resolved confirmation still holds pending call state")
	}
	if !c.IsStreaming() {
		t.Error("state after Cancel() should be streaming for the follow-up round")
	}
}

func TestConfirmationResolvesAtMostOnce(t *testing.T) {
	c := NewConversation()
	c.Submit("weather in London?")
	id, _ := c.RequireConfirmation(newTestCall("London"))

	if _, ok := c.Confirm(id); !ok {
		t.Fatal("first Confirm() failed")
	}
	if _, ok := c.Confirm(id); ok {
		t.Error("second Confirm() succeeded")
	}
	if _, ok := c.Cancel(id); ok {
		t.Error("Cancel() after Confirm() succeeded")
	}
}

func TestBeginToolReplyAttachesRecord(t *testing.T) {
	c := NewConversation()
	c.Submit("weather in London?")
	confID, _ := c.RequireConfirmation(newTestCall("London"))
	c.Confirm(confID)

	rec := &weather.Record{}
	rec.Location.Name = "London"

	id := c.BeginToolReply(rec)
	msg := c.Messages[len(c.Messages)-1]
	if msg.ID != id || !msg.Streaming {
		t.Fatalf("tool reply placeholder = %+v", msg)
	}
	if msg.Weather != rec {
		t.Error("weather record not attached to placeholder")
	}
}

func TestBeginToolReplyWithoutRecord(t *testing.T) {
	c := NewConversation()
	c.Submit("weather in Atlantis?")
	confID, _ := c.RequireConfirmation(newTestCall("Atlantis"))
	c.Confirm(confID)

	id := c.BeginToolReply(nil)
	msg := c.Messages[len(c.Messages)-1]
	if msg.ID != id || msg.Weather != nil {
		t.Errorf("placeholder after failed fetch = %+v, want no record", msg)
	}

	// The follow-up reply still streams normally
	c.AppendChunk(id, "I couldn't fetch that.")
	c.FinishStream(id)
	if c.State() != StateIdle {
		t.Error("conversation did not return to idle after failed-fetch reply")
	}
}

func TestForceIdleFinalizesStreaming(t *testing.T) {
	c := NewConversation()
	id, _ := c.Submit("weather?")
	c.AppendChunk(id, "partial")

	c.ForceIdle()

	if c.State() != StateIdle {
		t.Error("ForceIdle() did not reach idle")
	}
	for _, msg := range c.Messages {
		if msg.Streaming {
			t.Errorf("message %s still streaming after ForceIdle()", msg.ID)
		}
	}
	if _, ok := c.Submit("again"); !ok {
		t.Error("Submit() rejected after ForceIdle()")
	}
}

func TestStateExclusivity(t *testing.T) {
	c := NewConversation()

	assertStates := func(step string, streaming, awaiting bool) {
		t.Helper()
		if c.IsStreaming() != streaming || c.IsAwaitingToolConfirmation() != awaiting {
			t.Errorf("%s: streaming=%v awaiting=%v, want %v/%v",
				step, c.IsStreaming(), c.IsAwaitingToolConfirmation(), streaming, awaiting)
		}
	}

	assertStates("initial", false, false)

	id, _ := c.Submit("weather in Paris?")
	assertStates("after submit", true, false)

	confID, _ := c.RequireConfirmation(newTestCall("Paris"))
	assertStates("after tool call", false, true)

	c.Confirm(confID)
	assertStates("after confirm", true, false)

	replyID := c.BeginToolReply(nil)
	c.AppendChunk(replyID, "It's mild in Paris.")
	c.FinishStream(replyID)
	assertStates("after reply", false, false)

	_ = id
}
