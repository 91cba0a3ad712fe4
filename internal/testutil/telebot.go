package testutil

import (
	"strings"

	tele "gopkg.in/telebot.v3"
)

// FakeContext records replies instead of calling the Bot API.
// Methods not overridden here panic through the nil embedded Context.
type FakeContext struct {
	tele.Context

	User *tele.User
	Msg  *tele.Message
	Cb   *tele.Callback

	Sent      []interface{}
	Edited    []interface{}
	Responses []*tele.CallbackResponse
	SendErr   error

	values map[string]interface{}
}

// NewMessageContext creates a context for a private text message
func NewMessageContext(userID int64, text string) *FakeContext {
	user := &tele.User{ID: userID}
	return &FakeContext{
		User: user,
		Msg: &tele.Message{
			ID:     1,
			Sender: user,
			Chat:   &tele.Chat{ID: userID, Type: tele.ChatPrivate},
			Text:   text,
		},
		values: make(map[string]interface{}),
	}
}

// NewCallbackContext creates a context for an inline button press
func NewCallbackContext(userID int64, unique, data string) *FakeContext {
	user := &tele.User{ID: userID}
	msg := &tele.Message{
		ID:   1,
		Chat: &tele.Chat{ID: userID, Type: tele.ChatPrivate},
	}
	return &FakeContext{
		User: user,
		Msg:  msg,
		Cb: &tele.Callback{
			ID:      "cb-1",
			Sender:  user,
			Message: msg,
			Unique:  unique,
			Data:    data,
		},
		values: make(map[string]interface{}),
	}
}

func (c *FakeContext) Sender() *tele.User { return c.User }

func (c *FakeContext) Message() *tele.Message { return c.Msg }

func (c *FakeContext) Callback() *tele.Callback { return c.Cb }

func (c *FakeContext) Chat() *tele.Chat {
	if c.Msg != nil {
		return c.Msg.Chat
	}
	return nil
}

func (c *FakeContext) Text() string {
	if c.Msg == nil {
		return ""
	}
	return c.Msg.Text
}

func (c *FakeContext) Data() string {
	if c.Cb != nil {
		return c.Cb.Data
	}
	return ""
}

func (c *FakeContext) Args() []string {
	if c.Cb != nil {
		return strings.Split(c.Cb.Data, "|")
	}
	fields := strings.Fields(c.Text())
	if len(fields) < 2 {
		return nil
	}
	return fields[1:]
}

func (c *FakeContext) Send(what interface{}, _ ...interface{}) error {
	c.Sent = append(c.Sent, what)
	return c.SendErr
}

func (c *FakeContext) Reply(what interface{}, opts ...interface{}) error {
	return c.Send(what, opts...)
}

func (c *FakeContext) Edit(what interface{}, _ ...interface{}) error {
	c.Edited = append(c.Edited, what)
	return nil
}

func (c *FakeContext) Respond(resp ...*tele.CallbackResponse) error {
	if len(resp) == 0 {
		c.Responses = append(c.Responses, &tele.CallbackResponse{})
		return nil
	}
	c.Responses = append(c.Responses, resp[0])
	return nil
}

func (c *FakeContext) Get(key string) interface{} { return c.values[key] }

func (c *FakeContext) Set(key string, val interface{}) { c.values[key] = val }

// LastSent returns the last text reply or "" when nothing was sent
func (c *FakeContext) LastSent() string {
	if len(c.Sent) == 0 {
		return ""
	}
	text, _ := c.Sent[len(c.Sent)-1].(string)
	return text
}
