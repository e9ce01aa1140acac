package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSPublisher is the part of *sns.Client the sink needs.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSink sends direct-to-phone SMS through Amazon SNS.
type SNSSink struct {
	client   SNSPublisher
	senderID string
}

// NewSNSSink loads AWS credentials and region from the default chain.
func NewSNSSink(ctx context.Context, senderID string) (*SNSSink, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("sns: load aws config: %w", err)
	}
	return NewSNSSinkWithClient(sns.NewFromConfig(cfg), senderID), nil
}

func NewSNSSinkWithClient(client SNSPublisher, senderID string) *SNSSink {
	return &SNSSink{client: client, senderID: senderID}
}

func (s *SNSSink) Name() string { return "sns" }

func (s *SNSSink) Send(ctx context.Context, to, message string) error {
	phone, ok := NormalizeLK(to)
	if !ok {
		return fmt.Errorf("sns: invalid phone number %q", to)
	}
	in := &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	}
	if s.senderID != "" {
		in.MessageAttributes["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(s.senderID),
		}
	}
	if _, err := s.client.Publish(ctx, in); err != nil {
		return fmt.Errorf("sns: publish: %w", err)
	}
	return nil
}
