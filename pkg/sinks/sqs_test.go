package sinks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

type fakeSQSClient struct {
	input *sqs.SendMessageInput
	err   error
}

func (f *fakeSQSClient) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sqs.SendMessageOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSQSSinkDeliverSuccess(t *testing.T) {
	client := &fakeSQSClient{}
	sink := &sqsSink{
		id:       "queue",
		typ:      TypeSQS,
		queueURL: "https://sqs.example/queue",
		client:   client,
		log:      noopLogger{},
	}

	err := sink.Deliver(context.Background(), Delivery{
		RequestID: "r1",
		Method:    "POST",
		URL:       "https://example.com",
		Status:    200,
		Body:      "{}",
	})
	if err != nil {
		t.Fatalf("Deliver returned error: %v", err)
	}
	if client.input == nil {
		t.Fatalf("client was not called")
	}
	if got := aws.ToString(client.input.QueueUrl); got != "https://sqs.example/queue" {
		t.Fatalf("QueueUrl = %s", got)
	}
	attr, ok := client.input.MessageAttributes["request_id"]
	if !ok || attr.StringValue == nil || aws.ToString(attr.StringValue) != "r1" {
		t.Fatalf("request_id attribute missing or wrong: %#v", attr)
	}
	if client.input.MessageBody == nil || !strings.Contains(aws.ToString(client.input.MessageBody), `"request_id":"r1"`) {
		t.Fatalf("MessageBody missing request_id: %s", aws.ToString(client.input.MessageBody))
	}
}

func TestSQSSinkDeliverError(t *testing.T) {
	client := &fakeSQSClient{err: errors.New("boom")}
	sink := &sqsSink{
		id:       "queue",
		typ:      TypeSQS,
		queueURL: "https://sqs.example/queue",
		client:   client,
		log:      noopLogger{},
	}

	if err := sink.Deliver(context.Background(), Delivery{RequestID: "r1"}); err == nil {
		t.Fatalf("expected error from Deliver")
	}
}
