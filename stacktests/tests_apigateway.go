package stacktests

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddalmond/ruststack-integration-tests/fixtures"
)

func DoHTTPAPITests(t *T) {
	t.Run("api lifecycle", func(t *T) {
		gw := t.env.api.APIGateway()
		name := fixtures.NewID("test-api")

		created, err := gw.CreateApi(t.Context(), &apigatewayv2.CreateApiInput{
			Name:         aws.String(name),
			ProtocolType: apigwtypes.ProtocolTypeHttp,
		})
		require.NoError(t, err)
		apiID := aws.ToString(created.ApiId)
		require.NotEmpty(t, apiID)
		assert.Equal(t, name, aws.ToString(created.Name))
		assert.Equal(t, apigwtypes.ProtocolTypeHttp, created.ProtocolType)

		got, err := gw.GetApi(t.Context(), &apigatewayv2.GetApiInput{ApiId: aws.String(apiID)})
		require.NoError(t, err)
		assert.Equal(t, name, aws.ToString(got.Name))

		_, err = gw.DeleteApi(t.Context(), &apigatewayv2.DeleteApiInput{ApiId: aws.String(apiID)})
		require.NoError(t, err)
	})

	t.Run("route with integration", func(t *T) {
		gw := t.env.api.APIGateway()
		apiID := t.RequireFixture(fixtures.HTTPAPI(t.env.api))

		integration, err := gw.CreateIntegration(t.Context(), &apigatewayv2.CreateIntegrationInput{
			ApiId:                aws.String(apiID),
			IntegrationType:      apigwtypes.IntegrationTypeAwsProxy,
			IntegrationUri:       aws.String("arn:aws:lambda:us-east-1:000000000000:function:test"),
			PayloadFormatVersion: aws.String("2.0"),
		})
		require.NoError(t, err)
		integrationID := aws.ToString(integration.IntegrationId)
		require.NotEmpty(t, integrationID)

		route, err := gw.CreateRoute(t.Context(), &apigatewayv2.CreateRouteInput{
			ApiId:    aws.String(apiID),
			RouteKey: aws.String("GET /test"),
			Target:   aws.String("integrations/" + integrationID),
		})
		require.NoError(t, err)
		assert.Equal(t, "GET /test", aws.ToString(route.RouteKey))

		routes, err := gw.GetRoutes(t.Context(), &apigatewayv2.GetRoutesInput{ApiId: aws.String(apiID)})
		require.NoError(t, err)
		var keys []string
		for _, r := range routes.Items {
			keys = append(keys, aws.ToString(r.RouteKey))
		}
		assert.Contains(t, keys, "GET /test")
	})

	t.Run("stage management", func(t *T) {
		gw := t.env.api.APIGateway()
		apiID := t.RequireFixture(fixtures.HTTPAPI(t.env.api))

		created, err := gw.CreateStage(t.Context(), &apigatewayv2.CreateStageInput{
			ApiId:      aws.String(apiID),
			StageName:  aws.String("prod"),
			AutoDeploy: aws.Bool(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "prod", aws.ToString(created.StageName))
		assert.True(t, aws.ToBool(created.AutoDeploy))

		got, err := gw.GetStage(t.Context(), &apigatewayv2.GetStageInput{
			ApiId:     aws.String(apiID),
			StageName: aws.String("prod"),
		})
		require.NoError(t, err)
		assert.Equal(t, "prod", aws.ToString(got.StageName))

		stages, err := gw.GetStages(t.Context(), &apigatewayv2.GetStagesInput{ApiId: aws.String(apiID)})
		require.NoError(t, err)
		var names []string
		for _, s := range stages.Items {
			names = append(names, aws.ToString(s.StageName))
		}
		assert.Contains(t, names, "prod")
	})
}
