package stacktests

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	logtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddalmond/ruststack-integration-tests/fixtures"
)

func DoLogStoreTests(t *T) {
	t.Run("log group lifecycle", func(t *T) {
		logs := t.env.api.Logs()
		group := t.RequireFixture(fixtures.LogGroup(t.env.api))

		out, err := logs.DescribeLogGroups(t.Context(), &cloudwatchlogs.DescribeLogGroupsInput{
			LogGroupNamePrefix: aws.String(group),
		})
		require.NoError(t, err)

		var names []string
		for _, g := range out.LogGroups {
			names = append(names, aws.ToString(g.LogGroupName))
		}
		assert.Contains(t, names, group)
	})

	t.Run("log events round trip", func(t *T) {
		logs := t.env.api.Logs()
		group := t.RequireFixture(fixtures.LogGroup(t.env.api))
		stream := "test-stream"

		_, err := logs.CreateLogStream(t.Context(), &cloudwatchlogs.CreateLogStreamInput{
			LogGroupName:  aws.String(group),
			LogStreamName: aws.String(stream),
		})
		require.NoError(t, err)

		now := time.Now().UnixMilli()
		_, err = logs.PutLogEvents(t.Context(), &cloudwatchlogs.PutLogEventsInput{
			LogGroupName:  aws.String(group),
			LogStreamName: aws.String(stream),
			LogEvents: []logtypes.InputLogEvent{
				{Timestamp: aws.Int64(now), Message: aws.String("Test message 1")},
				{Timestamp: aws.Int64(now + 1), Message: aws.String("Test message 2")},
			},
		})
		require.NoError(t, err)

		out, err := logs.GetLogEvents(t.Context(), &cloudwatchlogs.GetLogEventsInput{
			LogGroupName:  aws.String(group),
			LogStreamName: aws.String(stream),
		})
		require.NoError(t, err)

		var messages []string
		for _, e := range out.Events {
			messages = append(messages, aws.ToString(e.Message))
		}
		assert.Contains(t, messages, "Test message 1")
		assert.Contains(t, messages, "Test message 2")
	})
}
