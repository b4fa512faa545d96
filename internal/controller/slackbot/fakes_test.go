package slackbot

import (
	"context"
	"errors"
	"sync"

	"github.com/Freeeeeet/pto_bot/internal/model"
	"github.com/Freeeeeet/pto_bot/internal/service"
	"github.com/Freeeeeet/pto_bot/internal/timewindow"
	"github.com/slack-go/slack"
)

type fakeAPI struct {
	mu        sync.Mutex
	posted    []string
	ephemeral []string
	deleted   []string
	views     []slack.ModalViewRequest
	users     map[string]*slack.User
}

func (f *fakeAPI) PostMessageContext(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posted = append(f.posted, channelID)
	return channelID, "1718000000.000100", nil
}

func (f *fakeAPI) PostEphemeralContext(_ context.Context, channelID, _ string, _ ...slack.MsgOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ephemeral = append(f.ephemeral, channelID)
	return "1718000000.000200", nil
}

func (f *fakeAPI) DeleteMessageContext(_ context.Context, channelID, timestamp string) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, channelID+"/"+timestamp)
	return channelID, timestamp, nil
}

func (f *fakeAPI) GetUserInfoContext(_ context.Context, user string) (*slack.User, error) {
	u, ok := f.users[user]
	if !ok {
		return nil, errors.New("user_not_found")
	}
	return u, nil
}

func (f *fakeAPI) OpenViewContext(_ context.Context, _ string, view slack.ModalViewRequest) (*slack.ViewResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.views = append(f.views, view)
	return &slack.ViewResponse{}, nil
}

type fakePTO struct {
	mu        sync.Mutex
	resolver  *timewindow.Resolver
	submitted chan model.PTORequest
	deleted   []model.DeletionSignal
	actions   []model.DeletionSignal
	bound     map[string]string
	bindErr   error
}

func newFakePTO() *fakePTO {
	return &fakePTO{
		resolver:  timewindow.NewResolver(nil),
		submitted: make(chan model.PTORequest, 1),
		bound:     make(map[string]string),
	}
}

func (f *fakePTO) Validate(req model.PTORequest) error {
	_, err := f.resolver.Resolve(timewindow.Input{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	})
	return err
}

func (f *fakePTO) Submit(_ context.Context, req model.PTORequest) (*service.SubmitResult, error) {
	f.submitted <- req
	return &service.SubmitResult{State: service.StateLinked}, nil
}

func (f *fakePTO) HandleMessageDeleted(_ context.Context, signal model.DeletionSignal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, signal)
	return nil
}

func (f *fakePTO) HandleDeleteAction(_ context.Context, signal model.DeletionSignal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, signal)
	return nil
}

func (f *fakePTO) BindChannel(_ context.Context, channelID, calendarID string) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound[channelID] = calendarID
	return nil
}

func (f *fakePTO) ChannelCalendar(_ context.Context, channelID string) (string, bool, error) {
	if calendarID, ok := f.bound[channelID]; ok {
		return calendarID, false, nil
	}
	return "default@group", true, nil
}
