package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"log"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"practice-backend/internal/bootstrap"
	"practice-backend/internal/shared/config"
	"practice-backend/internal/shared/metrics"
	"practice-backend/internal/shared/telemetry"
	"practice-backend/internal/workerproc"
)

var (
	initOnce sync.Once
	initErr  error
	app      *bootstrap.App
)

func initApp() {
	cfg := config.Load()
	cfg.NotifyQueueURL = ""
	built, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	app = built
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		log.Printf("bootstrap error: %v", initErr)
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}

	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range event.Records {
		err := workerproc.HandleMessage(ctx, app.ReferralService, record.Body)
		switch {
		case err == nil:
			metrics.IncNotifyJobsCompleted()
		case workerproc.Unrecoverable(err):
			telemetry.Error("lambda_worker.notify.dropped", map[string]any{"sqs_message_id": record.MessageId, "error": err})
			metrics.IncNotifyJobsDeletedUnrecoverable()
		default:
			telemetry.Error("lambda_worker.notify.failed", map[string]any{"sqs_message_id": record.MessageId, "error": err})
			metrics.IncNotifyJobsFailed()
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	return events.SQSEventResponse{BatchItemFailures: failures}, nil
}

func main() {
	lambda.Start(handler)
}
