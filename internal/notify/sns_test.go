package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	in  *sns.PublishInput
	err error
}

func (f *fakePublisher) Publish(_ context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("m-1")}, nil
}

func TestSNSSinkPublishesToPhone(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewSNSSinkWithClient(pub, "EASYBUS")

	require.NoError(t, sink.Send(context.Background(), "0771234567", "EasyBus: Booking #42 CANCELLED."))
	require.NotNil(t, pub.in)
	assert.Equal(t, "+94771234567", aws.ToString(pub.in.PhoneNumber))
	assert.Equal(t, "EasyBus: Booking #42 CANCELLED.", aws.ToString(pub.in.Message))
	assert.Equal(t, "EASYBUS", aws.ToString(pub.in.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
}

func TestSNSSinkReportsPublishError(t *testing.T) {
	sink := NewSNSSinkWithClient(&fakePublisher{err: errors.New("throttled")}, "")
	err := sink.Send(context.Background(), "0771234567", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestLogSinkAcceptsEverything(t *testing.T) {
	assert.NoError(t, LogSink{}.Send(context.Background(), "anyone", "hi"))
}
