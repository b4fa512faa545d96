package slackbot

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/pto_bot/internal/service"
	"github.com/slack-go/slack"
)

// slackAPI - часть *slack.Client, которой пользуется бот
type slackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	PostEphemeralContext(ctx context.Context, channelID, userID string, options ...slack.MsgOption) (string, error)
	DeleteMessageContext(ctx context.Context, channelID, timestamp string) (string, string, error)
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
	OpenViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
}

// Messenger реализует service.Messenger поверх Web API.
// id сообщения - его ts.
type Messenger struct {
	api slackAPI
}

func NewMessenger(api slackAPI) *Messenger {
	return &Messenger{api: api}
}

func (m *Messenger) Platform() string {
	return "Slack"
}

func (m *Messenger) Mention(userID string) string {
	return "<@" + userID + ">"
}

func (m *Messenger) PostConfirmation(ctx context.Context, channelID string, confirmation service.Confirmation) (string, error) {
	text := confirmation.Text(m.Mention(confirmation.SubjectID))

	_, ts, err := m.api.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionBlocks(confirmationBlocks(text)...),
	)
	if err != nil {
		return "", fmt.Errorf("post confirmation: %w", err)
	}

	return ts, nil
}

func confirmationBlocks(text string) []slack.Block {
	deleteButton := slack.NewButtonBlockElement(deleteActionID, "delete", plainText("Delete")).
		WithStyle(slack.StyleDanger)

	return []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, text, false, false), nil, nil),
		slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, service.DeleteHint, false, false)),
		slack.NewActionBlock("pto_actions", deleteButton),
	}
}

func (m *Messenger) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	if _, _, err := m.api.DeleteMessageContext(ctx, channelID, messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// Notify - личное сообщение от бота
func (m *Messenger) Notify(ctx context.Context, userID, text string) error {
	if _, _, err := m.api.PostMessageContext(ctx, userID, slack.MsgOptionText("⚠️ "+text, false)); err != nil {
		return fmt.Errorf("notify user: %w", err)
	}
	return nil
}

func (m *Messenger) DisplayName(ctx context.Context, userID string) (string, error) {
	user, err := m.api.GetUserInfoContext(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user info: %w", err)
	}

	switch {
	case user.Profile.DisplayName != "":
		return user.Profile.DisplayName, nil
	case user.RealName != "":
		return user.RealName, nil
	default:
		return user.Name, nil
	}
}
