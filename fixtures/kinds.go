package fixtures

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	apigwtypes "github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	fhtypes "github.com/aws/aws-sdk-go-v2/service/firehose/types"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/eddalmond/ruststack-integration-tests/awsapi"
)

const tableActiveTimeout = 5 * time.Second

const assumeRolePolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"Service": "lambda.amazonaws.com"},
    "Action": "sts:AssumeRole"
  }]
}`

// Bucket is an object storage container. Teardown drains remaining objects
// before removing the container itself, and keeps going if individual
// deletions fail.
func Bucket(api *awsapi.Factory, scope Scope) *Fixture {
	return &Fixture{
		Kind:  "bucket",
		Scope: scope,
		CreateFn: func(ctx context.Context, _ map[string]string) (string, error) {
			name := NewID("test-bucket")
			_, err := api.S3().CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(name)})
			if err != nil {
				return "", err
			}
			return name, nil
		},
		TeardownFn: func(ctx context.Context, name string) []StepResult {
			var steps []StepResult
			list, err := api.S3().ListObjectsV2(ctx, &s3.ListObjectsV2Input{Bucket: aws.String(name)})
			steps = append(steps, StepOutcome("list objects", err, awsapi.IsNotFound))
			if err == nil {
				for _, obj := range list.Contents {
					_, err := api.S3().DeleteObject(ctx, &s3.DeleteObjectInput{
						Bucket: aws.String(name),
						Key:    obj.Key,
					})
					steps = append(steps, StepOutcome("delete object "+aws.ToString(obj.Key), err, awsapi.IsNotFound))
				}
			}
			_, err = api.S3().DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(name)})
			steps = append(steps, StepOutcome("delete bucket", err, awsapi.IsNotFound))
			return steps
		},
	}
}

// Table is a key-value table with the composite (pk, sk) key schema used by
// the checks. Creation waits for the table to report ACTIVE.
func Table(api *awsapi.Factory) *Fixture {
	return &Fixture{
		Kind:  "table",
		Scope: TestScope,
		CreateFn: func(ctx context.Context, _ map[string]string) (string, error) {
			name := NewID("test-table")
			_, err := api.DynamoDB().CreateTable(ctx, &dynamodb.CreateTableInput{
				TableName: aws.String(name),
				KeySchema: []ddbtypes.KeySchemaElement{
					{AttributeName: aws.String("pk"), KeyType: ddbtypes.KeyTypeHash},
					{AttributeName: aws.String("sk"), KeyType: ddbtypes.KeyTypeRange},
				},
				AttributeDefinitions: []ddbtypes.AttributeDefinition{
					{AttributeName: aws.String("pk"), AttributeType: ddbtypes.ScalarAttributeTypeS},
					{AttributeName: aws.String("sk"), AttributeType: ddbtypes.ScalarAttributeTypeS},
				},
				BillingMode: ddbtypes.BillingModePayPerRequest,
			})
			if err != nil {
				return "", err
			}
			if err := waitForTableActive(ctx, api, name); err != nil {
				return "", err
			}
			return name, nil
		},
		TeardownFn: func(ctx context.Context, name string) []StepResult {
			_, err := api.DynamoDB().DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(name)})
			return []StepResult{StepOutcome("delete table", err, awsapi.IsNotFound)}
		},
	}
}

func waitForTableActive(ctx context.Context, api *awsapi.Factory, name string) error {
	deadline := time.Now().Add(tableActiveTimeout)
	for {
		out, err := api.DynamoDB().DescribeTable(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		if err == nil && out.Table != nil && out.Table.TableStatus == ddbtypes.TableStatusActive {
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("table %s did not become active within %s", name, tableActiveTimeout)
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Secret is a secret-store entry with an initial value. Teardown force
// deletes, skipping the recovery window.
func Secret(api *awsapi.Factory) *Fixture {
	return &Fixture{
		Kind:  "secret",
		Scope: TestScope,
		CreateFn: func(ctx context.Context, _ map[string]string) (string, error) {
			name := NewID("test-secret")
			_, err := api.SecretsManager().CreateSecret(ctx, &secretsmanager.CreateSecretInput{
				Name:         aws.String(name),
				SecretString: aws.String(`{"username": "admin", "password": "secret123"}`),
			})
			if err != nil {
				return "", err
			}
			return name, nil
		},
		TeardownFn: func(ctx context.Context, name string) []StepResult {
			_, err := api.SecretsManager().DeleteSecret(ctx, &secretsmanager.DeleteSecretInput{
				SecretId:                   aws.String(name),
				ForceDeleteWithoutRecovery: aws.Bool(true),
			})
			return []StepResult{StepOutcome("delete secret", err, awsapi.IsNotFound)}
		},
	}
}

// Role is an identity role assumable by the function runtime. Teardown
// detaches any policies the test attached before deleting the role, and
// still attempts the delete if detaching fails.
func Role(api *awsapi.Factory) *Fixture {
	return &Fixture{
		Kind:  "role",
		Scope: TestScope,
		CreateFn: func(ctx context.Context, _ map[string]string) (string, error) {
			name := NewID("test-role")
			_, err := api.IAM().CreateRole(ctx, &iam.CreateRoleInput{
				RoleName:                 aws.String(name),
				AssumeRolePolicyDocument: aws.String(assumeRolePolicy),
			})
			if err != nil {
				return "", err
			}
			return name, nil
		},
		TeardownFn: func(ctx context.Context, name string) []StepResult {
			var steps []StepResult
			attached, err := api.IAM().ListAttachedRolePolicies(ctx, &iam.ListAttachedRolePoliciesInput{
				RoleName: aws.String(name),
			})
			steps = append(steps, StepOutcome("list attached policies", err, awsapi.IsNotFound))
			if err == nil {
				for _, policy := range attached.AttachedPolicies {
					_, err := api.IAM().DetachRolePolicy(ctx, &iam.DetachRolePolicyInput{
						RoleName:  aws.String(name),
						PolicyArn: policy.PolicyArn,
					})
					steps = append(steps, StepOutcome("detach policy "+aws.ToString(policy.PolicyArn), err, awsapi.IsNotFound))
				}
			}
			_, err = api.IAM().DeleteRole(ctx, &iam.DeleteRoleInput{RoleName: aws.String(name)})
			steps = append(steps, StepOutcome("delete role", err, awsapi.IsNotFound))
			return steps
		},
	}
}

// LogGroup is a log-store group.
func LogGroup(api *awsapi.Factory) *Fixture {
	return &Fixture{
		Kind:  "log-group",
		Scope: TestScope,
		CreateFn: func(ctx context.Context, _ map[string]string) (string, error) {
			name := "/" + NewID("test/harness")
			_, err := api.Logs().CreateLogGroup(ctx, &cloudwatchlogs.CreateLogGroupInput{
				LogGroupName: aws.String(name),
			})
			if err != nil {
				return "", err
			}
			return name, nil
		},
		TeardownFn: func(ctx context.Context, name string) []StepResult {
			_, err := api.Logs().DeleteLogGroup(ctx, &cloudwatchlogs.DeleteLogGroupInput{
				LogGroupName: aws.String(name),
			})
			return []StepResult{StepOutcome("delete log group", err, awsapi.IsNotFound)}
		},
	}
}

// HTTPAPI is an http-api registry entry; its identifier is the service
// assigned API id, not a generated name.
func HTTPAPI(api *awsapi.Factory) *Fixture {
	return &Fixture{
		Kind:  "http-api",
		Scope: TestScope,
		CreateFn: func(ctx context.Context, _ map[string]string) (string, error) {
			out, err := api.APIGateway().CreateApi(ctx, &apigatewayv2.CreateApiInput{
				Name:         aws.String(NewID("test-api")),
				ProtocolType: apigwtypes.ProtocolTypeHttp,
			})
			if err != nil {
				return "", err
			}
			return aws.ToString(out.ApiId), nil
		},
		TeardownFn: func(ctx context.Context, apiID string) []StepResult {
			_, err := api.APIGateway().DeleteApi(ctx, &apigatewayv2.DeleteApiInput{ApiId: aws.String(apiID)})
			return []StepResult{StepOutcome("delete api", err, awsapi.IsNotFound)}
		},
	}
}

// DeliveryStream is a delivery stream targeting the given bucket fixture.
// The bucket must be torn down after the stream, which the reverse-order
// Release guarantees.
func DeliveryStream(api *awsapi.Factory, bucket *Fixture) *Fixture {
	return &Fixture{
		Kind:      "delivery-stream",
		Scope:     TestScope,
		DependsOn: []*Fixture{bucket},
		CreateFn: func(ctx context.Context, deps map[string]string) (string, error) {
			name := NewID("test-stream")
			_, err := api.Firehose().CreateDeliveryStream(ctx, &firehose.CreateDeliveryStreamInput{
				DeliveryStreamName: aws.String(name),
				DeliveryStreamType: fhtypes.DeliveryStreamTypeDirectPut,
				ExtendedS3DestinationConfiguration: &fhtypes.ExtendedS3DestinationConfiguration{
					BucketARN: aws.String("arn:aws:s3:::" + deps["bucket"]),
					RoleARN:   aws.String("arn:aws:iam::000000000000:role/firehose-role"),
					BufferingHints: &fhtypes.BufferingHints{
						SizeInMBs:         aws.Int32(1),
						IntervalInSeconds: aws.Int32(60),
					},
				},
			})
			if err != nil {
				return "", err
			}
			return name, nil
		},
		TeardownFn: func(ctx context.Context, name string) []StepResult {
			_, err := api.Firehose().DeleteDeliveryStream(ctx, &firehose.DeleteDeliveryStreamInput{
				DeliveryStreamName: aws.String(name),
			})
			return []StepResult{StepOutcome("delete delivery stream", err, awsapi.IsNotFound)}
		},
	}
}
