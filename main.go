package main

import (
	"context"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"

	"github.com/upscpath/tracker-lambda/internal/config"
	"github.com/upscpath/tracker-lambda/internal/container"
	"github.com/upscpath/tracker-lambda/internal/router"
)

var chiLambda *chiadapter.ChiLambdaV2

func buildRouter() *chi.Mux {
	c := container.New()

	return router.New(router.RouterConfig{
		UserHandler:     c.UserContainer.Handler,
		SubjectHandler:  c.SubjectContainer.Handler,
		ModuleHandler:   c.ModuleContainer.Handler,
		SectionHandler:  c.SectionContainer.Handler,
		QuestionHandler: c.QuestionContainer.Handler,
		ProgressHandler: c.ProgressContainer.Handler,
	})
}

func lambdaHandler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	return chiLambda.ProxyWithContextV2(ctx, req)
}

func main() {
	r := buildRouter()

	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		chiLambda = chiadapter.NewV2(r)
		lambda.Start(lambdaHandler)
		return
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	config.Logger().Infof("Listening on :%s", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		config.Logger().WithError(err).Fatal("Server stopped")
	}
}
