package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"cabinbooking/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func sampleEvent() domain.BookingEvent {
	b := domain.Booking{ID: "b1", CabinID: "C2", RequesterID: "u1", Status: domain.BookingApproved}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.NewBookingEvent(domain.EventBookingApproved, b, domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}, at)
}

func TestAMQPPublisher_PublishRoutesByEventType(t *testing.T) {
	ch := new(MockChannel)
	ch.On("PublishWithContext", mock.Anything, "cabin.bookings", "booking.approved", false, false, mock.Anything).
		Return(nil).Once()

	p := newPublisherWithChannel(ch, "cabin.bookings")
	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	ch.AssertExpectations(t)

	msg := ch.Calls[0].Arguments.Get(5).(amqp.Publishing)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)

	var decoded domain.BookingEvent
	require.NoError(t, json.Unmarshal(msg.Body, &decoded))
	assert.Equal(t, "b1", decoded.BookingID)
	assert.Equal(t, "admin-1", decoded.ActorID)
	assert.Equal(t, domain.BookingApproved, decoded.Status)
}

func TestAMQPPublisher_PublishError(t *testing.T) {
	ch := new(MockChannel)
	ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, false, false, mock.Anything).
		Return(errors.New("channel closed"))

	p := newPublisherWithChannel(ch, "cabin.bookings")
	err := p.Publish(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "booking.approved")
}

func TestAMQPPublisher_CloseWithoutConnection(t *testing.T) {
	ch := new(MockChannel)
	ch.On("Close").Return(nil).Once()

	p := newPublisherWithChannel(ch, "x")
	assert.NoError(t, p.Close())
	ch.AssertExpectations(t)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Publish(context.Background(), sampleEvent()))
	assert.NoError(t, Nop{}.Close())
}
