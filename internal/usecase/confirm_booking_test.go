package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/caioav/lead-relay/internal/entity"
	"github.com/caioav/lead-relay/internal/infra/queue"
)

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendConfirmation(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

// MockSMSService
type MockSMSService struct {
	mock.Mock
}

func (m *MockSMSService) SendMessage(ctx context.Context, from, to, body string) error {
	args := m.Called(ctx, from, to, body)
	return args.Error(0)
}

// MockAuditProducer
type MockAuditProducer struct {
	mock.Mock
}

func (m *MockAuditProducer) PublishDispatched(ctx context.Context, event queue.DispatchedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

const anaMessage = "Hi Ana, thanks for booking your AI Agent demo! We'll see you soon."

func TestConfirmBookingWithPhone(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockEmail := new(MockEmailService)
	mockSMS := new(MockSMSService)

	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(&entity.Lead{
		Email: "a@x.com",
		Name:  "Ana",
		Phone: "+15551234567",
	}, nil)
	mockEmail.On("SendConfirmation", mock.Anything, "a@x.com",
		"AI Agent Demo Booking Confirmation", anaMessage).Return(nil)
	mockSMS.On("SendMessage", mock.Anything, "+15550000001", "+15551234567", anaMessage).Return(nil)
	mockSMS.On("SendMessage", mock.Anything, "+15550000002", "whatsapp:+15551234567", anaMessage).Return(nil)
	mockRepo.On("Delete", mock.Anything, "a@x.com").Return(nil)

	uc := NewConfirmBookingUseCase(mockRepo, mockEmail, mockSMS, nil, "+15550000001", "+15550000002")

	output, err := uc.Execute(context.Background(), ConfirmBookingInput{
		Event:        "invitee.created",
		InviteeEmail: "a@x.com",
	})

	assert.NoError(t, err)
	assert.True(t, output.Dispatched)
	assert.Equal(t, []string{"email", "sms", "whatsapp"}, output.Channels)
	mockEmail.AssertNumberOfCalls(t, "SendConfirmation", 1)
	mockSMS.AssertNumberOfCalls(t, "SendMessage", 2)
	mockRepo.AssertCalled(t, "Delete", mock.Anything, "a@x.com")
}

func TestConfirmBookingWithoutPhone(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockEmail := new(MockEmailService)
	mockSMS := new(MockSMSService)

	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(&entity.Lead{
		Email: "a@x.com",
		Name:  "Ana",
	}, nil)
	mockEmail.On("SendConfirmation", mock.Anything, "a@x.com",
		"AI Agent Demo Booking Confirmation", anaMessage).Return(nil)
	mockRepo.On("Delete", mock.Anything, "a@x.com").Return(nil)

	uc := NewConfirmBookingUseCase(mockRepo, mockEmail, mockSMS, nil, "+15550000001", "+15550000002")

	output, err := uc.Execute(context.Background(), ConfirmBookingInput{
		Event:        "invitee.created",
		InviteeEmail: "a@x.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, []string{"email"}, output.Channels)
	mockSMS.AssertNotCalled(t, "SendMessage")
	mockRepo.AssertCalled(t, "Delete", mock.Anything, "a@x.com")
}

func TestConfirmBookingIgnoresOtherEventTypes(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockEmail := new(MockEmailService)
	mockSMS := new(MockSMSService)

	uc := NewConfirmBookingUseCase(mockRepo, mockEmail, mockSMS, nil, "", "")

	output, err := uc.Execute(context.Background(), ConfirmBookingInput{
		Event:        "invitee.canceled",
		InviteeEmail: "a@x.com",
	})

	assert.NoError(t, err)
	assert.False(t, output.Dispatched)
	mockRepo.AssertNotCalled(t, "FindByEmail")
	mockEmail.AssertNotCalled(t, "SendConfirmation")
}

func TestConfirmBookingLeadNotFound(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockEmail := new(MockEmailService)
	mockSMS := new(MockSMSService)

	mockRepo.On("FindByEmail", mock.Anything, "ghost@x.com").Return(nil, entity.ErrLeadNotFound)

	uc := NewConfirmBookingUseCase(mockRepo, mockEmail, mockSMS, nil, "", "")

	output, err := uc.Execute(context.Background(), ConfirmBookingInput{
		Event:        "invitee.created",
		InviteeEmail: "ghost@x.com",
	})

	assert.Nil(t, output)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeLeadNotFound, domainErr.Code)
	assert.Equal(t, "Lead not found", domainErr.Message)
	mockEmail.AssertNotCalled(t, "SendConfirmation")
	mockRepo.AssertNotCalled(t, "Delete")
}

func TestConfirmBookingAbsentEmailPath(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockEmail := new(MockEmailService)
	mockSMS := new(MockSMSService)

	// Payload without an invitee email: the lookup key is the empty string.
	mockRepo.On("FindByEmail", mock.Anything, "").Return(nil, entity.ErrLeadNotFound)

	uc := NewConfirmBookingUseCase(mockRepo, mockEmail, mockSMS, nil, "", "")

	_, err := uc.Execute(context.Background(), ConfirmBookingInput{
		Event: "invitee.created",
	})

	assert.True(t, IsDomainError(err))
}

func TestConfirmBookingEmailFailureKeepsLead(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockEmail := new(MockEmailService)
	mockSMS := new(MockSMSService)

	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(&entity.Lead{
		Email: "a@x.com",
		Name:  "Ana",
		Phone: "+15551234567",
	}, nil)
	mockEmail.On("SendConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("sendgrid api error (status 401)"))

	uc := NewConfirmBookingUseCase(mockRepo, mockEmail, mockSMS, nil, "+15550000001", "+15550000002")

	output, err := uc.Execute(context.Background(), ConfirmBookingInput{
		Event:        "invitee.created",
		InviteeEmail: "a@x.com",
	})

	assert.Nil(t, output)
	var techErr *TechnicalError
	assert.ErrorAs(t, err, &techErr)
	assert.Equal(t, CodeEmailFailed, techErr.Code)
	mockSMS.AssertNotCalled(t, "SendMessage")
	mockRepo.AssertNotCalled(t, "Delete")
}

func TestConfirmBookingSMSFailureKeepsLead(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockEmail := new(MockEmailService)
	mockSMS := new(MockSMSService)

	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(&entity.Lead{
		Email: "a@x.com",
		Name:  "Ana",
		Phone: "+15551234567",
	}, nil)
	mockEmail.On("SendConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockSMS.On("SendMessage", mock.Anything, "+15550000001", "+15551234567", anaMessage).
		Return(errors.New("twilio api error (status 400)"))

	uc := NewConfirmBookingUseCase(mockRepo, mockEmail, mockSMS, nil, "+15550000001", "+15550000002")

	_, err := uc.Execute(context.Background(), ConfirmBookingInput{
		Event:        "invitee.created",
		InviteeEmail: "a@x.com",
	})

	var techErr *TechnicalError
	assert.ErrorAs(t, err, &techErr)
	assert.Equal(t, CodeSMSFailed, techErr.Code)
	// The email already went out, but the lead stays for a redelivery retry.
	mockSMS.AssertNumberOfCalls(t, "SendMessage", 1)
	mockRepo.AssertNotCalled(t, "Delete")
}

func TestConfirmBookingPublishesAuditEvent(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockEmail := new(MockEmailService)
	mockSMS := new(MockSMSService)
	mockAudit := new(MockAuditProducer)

	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(&entity.Lead{
		Email: "a@x.com",
		Name:  "Ana",
	}, nil)
	mockEmail.On("SendConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("Delete", mock.Anything, "a@x.com").Return(nil)
	mockAudit.On("PublishDispatched", mock.Anything, mock.MatchedBy(func(event queue.DispatchedEvent) bool {
		return event.Email == "a@x.com" &&
			event.Name == "Ana" &&
			len(event.Channels) == 1 &&
			event.ID != ""
	})).Return(nil)

	uc := NewConfirmBookingUseCase(mockRepo, mockEmail, mockSMS, mockAudit, "", "")

	_, err := uc.Execute(context.Background(), ConfirmBookingInput{
		Event:        "invitee.created",
		InviteeEmail: "a@x.com",
	})

	assert.NoError(t, err)
	mockAudit.AssertExpectations(t)
}

func TestConfirmBookingAuditFailureIsNotFatal(t *testing.T) {
	mockRepo := new(MockLeadRepository)
	mockEmail := new(MockEmailService)
	mockSMS := new(MockSMSService)
	mockAudit := new(MockAuditProducer)

	mockRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(&entity.Lead{
		Email: "a@x.com",
		Name:  "Ana",
	}, nil)
	mockEmail.On("SendConfirmation", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	mockRepo.On("Delete", mock.Anything, "a@x.com").Return(nil)
	mockAudit.On("PublishDispatched", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	uc := NewConfirmBookingUseCase(mockRepo, mockEmail, mockSMS, mockAudit, "", "")

	output, err := uc.Execute(context.Background(), ConfirmBookingInput{
		Event:        "invitee.created",
		InviteeEmail: "a@x.com",
	})

	assert.NoError(t, err)
	assert.True(t, output.Dispatched)
}
