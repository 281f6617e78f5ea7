package awsapi

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Factory hands out one configured client per service domain. Clients are
// built lazily on first use and reused for the whole run; they are read-only
// after construction so reuse across sequential tests is safe.
type Factory struct {
	settings Settings
	cfg      aws.Config

	s3Client       *s3.Client
	dynamoClient   *dynamodb.Client
	lambdaClient   *lambda.Client
	logsClient     *cloudwatchlogs.Client
	secretsClient  *secretsmanager.Client
	iamClient      *iam.Client
	gatewayClient  *apigatewayv2.Client
	deliveryClient *firehose.Client
}

// NewFactory validates the settings and prepares the shared AWS configuration.
// No network calls are made; a malformed endpoint is the only way this fails.
func NewFactory(settings Settings) (*Factory, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	httpClient := awshttp.NewBuildableClient().
		WithDialerOptions(func(d *net.Dialer) {
			d.Timeout = settings.Retry.ConnectTimeout
		}).
		WithTransportOptions(func(tr *http.Transport) {
			tr.ResponseHeaderTimeout = settings.Retry.ReadTimeout
		})

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(settings.Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, "")),
		config.WithRetryer(func() aws.Retryer {
			return retry.NewStandard(func(o *retry.StandardOptions) {
				o.MaxAttempts = settings.Retry.MaxAttempts
			})
		}),
		config.WithHTTPClient(httpClient),
	)
	if err != nil {
		return nil, fmt.Errorf("building AWS configuration: %w", err)
	}

	return &Factory{settings: settings, cfg: cfg}, nil
}

func (f *Factory) Settings() Settings {
	return f.settings
}

func (f *Factory) S3() *s3.Client {
	if f.s3Client == nil {
		f.s3Client = s3.NewFromConfig(f.cfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(f.settings.BaseURL)
			// Virtual-hosted bucket addressing would require DNS entries per
			// bucket; the emulator only speaks path style.
			o.UsePathStyle = true
		})
	}
	return f.s3Client
}

func (f *Factory) DynamoDB() *dynamodb.Client {
	if f.dynamoClient == nil {
		f.dynamoClient = dynamodb.NewFromConfig(f.cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(f.settings.BaseURL)
		})
	}
	return f.dynamoClient
}

func (f *Factory) Lambda() *lambda.Client {
	if f.lambdaClient == nil {
		f.lambdaClient = lambda.NewFromConfig(f.cfg, func(o *lambda.Options) {
			o.BaseEndpoint = aws.String(f.settings.BaseURL)
		})
	}
	return f.lambdaClient
}

func (f *Factory) Logs() *cloudwatchlogs.Client {
	if f.logsClient == nil {
		f.logsClient = cloudwatchlogs.NewFromConfig(f.cfg, func(o *cloudwatchlogs.Options) {
			o.BaseEndpoint = aws.String(f.settings.BaseURL)
		})
	}
	return f.logsClient
}

func (f *Factory) SecretsManager() *secretsmanager.Client {
	if f.secretsClient == nil {
		f.secretsClient = secretsmanager.NewFromConfig(f.cfg, func(o *secretsmanager.Options) {
			o.BaseEndpoint = aws.String(f.settings.BaseURL)
		})
	}
	return f.secretsClient
}

func (f *Factory) IAM() *iam.Client {
	if f.iamClient == nil {
		f.iamClient = iam.NewFromConfig(f.cfg, func(o *iam.Options) {
			o.BaseEndpoint = aws.String(f.settings.BaseURL)
		})
	}
	return f.iamClient
}

func (f *Factory) APIGateway() *apigatewayv2.Client {
	if f.gatewayClient == nil {
		f.gatewayClient = apigatewayv2.NewFromConfig(f.cfg, func(o *apigatewayv2.Options) {
			o.BaseEndpoint = aws.String(f.settings.BaseURL)
		})
	}
	return f.gatewayClient
}

func (f *Factory) Firehose() *firehose.Client {
	if f.deliveryClient == nil {
		f.deliveryClient = firehose.NewFromConfig(f.cfg, func(o *firehose.Options) {
			o.BaseEndpoint = aws.String(f.settings.BaseURL)
		})
	}
	return f.deliveryClient
}
