package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"practice-backend/internal/bootstrap"
	"practice-backend/internal/shared/config"
	"practice-backend/internal/shared/server/middleware"
	"practice-backend/internal/shared/server/respond"
	"practice-backend/internal/shared/telemetry"
)

const bootstrapFailedMessage = "Server configuration error: service unavailable"

var (
	initOnce  sync.Once
	initErr   error
	cfg       config.Config
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	cfg = config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil || ginLambda == nil {
		fields := map[string]any{"path": req.RawPath}
		if initErr != nil {
			fields["error"] = initErr
		}
		telemetry.Error("lambda_http.bootstrap_failed", fields)
		return unavailable(cfg.CORSAllowOrigin, req), nil
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

// unavailable answers without the router. Preflights still succeed and every
// answer carries the router's CORS headers so browsers can read the error.
func unavailable(allowedOrigins []string, req events.APIGatewayV2HTTPRequest) events.APIGatewayV2HTTPResponse {
	headers := map[string]string{}
	for k, v := range middleware.CORSHeaders(allowedOrigins, header(req.Headers, "Origin")) {
		headers[k] = v
	}

	if strings.EqualFold(req.RequestContext.HTTP.Method, http.MethodOptions) {
		headers["Content-Type"] = "text/plain; charset=utf-8"
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusOK, Body: "ok", Headers: headers}
	}

	body, _ := json.Marshal(respond.ErrorResponse{Error: bootstrapFailedMessage})
	headers["Content-Type"] = "application/json; charset=utf-8"
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       string(body),
		Headers:    headers,
	}
}

// header looks up name case-insensitively; API Gateway lowercases keys.
func header(h map[string]string, name string) string {
	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func main() {
	lambda.Start(handler)
}
