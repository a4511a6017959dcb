package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	app "devdash-backend/application/ideamap"
	"devdash-backend/infrastructure/config"
	"devdash-backend/infrastructure/di"
)

var (
	chiLambda *chiadapter.ChiLambdaV2
	container *di.Container

	coldStart     = true
	coldStartTime time.Time
)

// init runs during cold start. Editor sessions live in this instance's
// memory, so a client talking to several instances sees several sessions.
func init() {
	coldStartTime = time.Now()
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("DEVDASH_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// the environment tears the instance down, so cleanup never runs
	container, _, err = di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	// a memory store starts empty on every boot
	if cfg.Store.Bootstrap || cfg.Store.Driver == config.DriverMemory {
		bootCtx, cancel := context.WithTimeout(ctx, cfg.Store.Timeout)
		_, _, err := app.Bootstrap(bootCtx, container.IdeaMap, container.Logger.Logger)
		cancel()
		if err != nil {
			log.Fatalf("Failed to bootstrap idea map: %v", err)
		}
	}

	mux, ok := container.Handler.(*chi.Mux)
	if !ok {
		log.Fatal("Failed to cast handler to chi.Mux")
	}
	chiLambda = chiadapter.NewV2(mux)
	container.Logger.Info("Lambda cold start completed", zap.Duration("duration", time.Since(coldStartTime)))
}

// Handler is the Lambda function handler
func Handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	resp, err := chiLambda.ProxyWithContextV2(ctx, req)
	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	if coldStart {
		resp.Headers["X-Cold-Start"] = "true"
		coldStart = false
	}
	if req.RequestContext.RequestID != "" {
		resp.Headers["X-Lambda-Request-ID"] = req.RequestContext.RequestID
	}

	fields := []zap.Field{
		zap.String("method", req.RequestContext.HTTP.Method),
		zap.String("path", req.RequestContext.HTTP.Path),
		zap.String("request_id", req.RequestContext.RequestID),
		zap.Int("status_code", resp.StatusCode),
	}
	if err != nil || resp.StatusCode >= 500 {
		container.Logger.Error("Lambda error response", append(fields, zap.Error(err))...)
	} else {
		container.Logger.Debug("Lambda response", fields...)
	}
	return resp, err
}

func main() {
	lambda.Start(Handler)
}
