package slackbot

import (
	"strings"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/Freeeeeet/pto_bot/internal/timewindow"
	"github.com/slack-go/slack"
)

const (
	shortcutCallbackID = "log_pto"
	modalCallbackID    = "pto_submit"
	deleteActionID     = "pto_delete"

	// id блоков совпадают с action id и с именами полей timewindow
	blockSubject   = "subject"
	blockChannel   = "channel"
	blockStartDate = string(timewindow.FieldStartDate)
	blockEndDate   = string(timewindow.FieldEndDate)
	blockStartTime = string(timewindow.FieldStartTime)
	blockEndTime   = string(timewindow.FieldEndTime)
	blockNote      = "note"
)

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func inputBlock(blockID, label string, element slack.BlockElement, optional bool) *slack.InputBlock {
	block := slack.NewInputBlock(blockID, plainText(label), nil, element)
	block.Optional = optional
	return block
}

// ptoModal строит форму заявки; канал вызова уходит в private_metadata
func ptoModal(requesterID, originChannelID string) slack.ModalViewRequest {
	subject := slack.NewOptionsSelectBlockElement(slack.OptTypeUser, plainText("Who is out?"), blockSubject)
	subject.InitialUser = requesterID

	channel := slack.NewOptionsSelectBlockElement(slack.OptTypeChannels, plainText("Post to channel"), blockChannel)
	if originChannelID != "" {
		channel.InitialChannel = originChannelID
	}

	startTime := slack.NewPlainTextInputBlockElement(plainText("09:00"), blockStartTime)
	endTime := slack.NewPlainTextInputBlockElement(plainText("17:00"), blockEndTime)

	note := slack.NewPlainTextInputBlockElement(plainText("Anything the team should know"), blockNote)
	note.Multiline = true

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      modalCallbackID,
		Title:           plainText("Log PTO"),
		Submit:          plainText("Submit"),
		Close:           plainText("Cancel"),
		PrivateMetadata: originChannelID,
		Blocks: slack.Blocks{
			BlockSet: []slack.Block{
				inputBlock(blockSubject, "Employee", subject, false),
				inputBlock(blockChannel, "Channel", channel, true),
				inputBlock(blockStartDate, "Start date", slack.NewDatePickerBlockElement(blockStartDate), false),
				inputBlock(blockEndDate, "End date", slack.NewDatePickerBlockElement(blockEndDate), true),
				inputBlock(blockStartTime, "Start time (HH:MM)", startTime, true),
				inputBlock(blockEndTime, "End time (HH:MM)", endTime, true),
				inputBlock(blockNote, "Note", note, true),
			},
		},
	}
}

// requestFromView собирает заявку из отправленной формы
func requestFromView(requesterID string, view slack.View) model.PTORequest {
	var values map[string]map[string]slack.BlockAction
	if view.State != nil {
		values = view.State.Values
	}

	field := func(blockID string) slack.BlockAction {
		return values[blockID][blockID]
	}

	subjectID := field(blockSubject).SelectedUser
	if subjectID == "" {
		subjectID = requesterID
	}

	return model.PTORequest{
		RequesterID:     requesterID,
		SubjectID:       subjectID,
		TargetChannelID: field(blockChannel).SelectedChannel,
		OriginChannelID: view.PrivateMetadata,
		StartDate:       field(blockStartDate).SelectedDate,
		EndDate:         field(blockEndDate).SelectedDate,
		StartTime:       strings.TrimSpace(field(blockStartTime).Value),
		EndTime:         strings.TrimSpace(field(blockEndTime).Value),
		Note:            strings.TrimSpace(field(blockNote).Value),
	}
}

// viewErrors переводит ошибки полей в ошибки блоков формы
func viewErrors(verr *timewindow.ValidationError) map[string]string {
	errs := make(map[string]string, len(verr.Fields))
	for field, message := range verr.Fields {
		errs[string(field)] = message
	}
	return errs
}
