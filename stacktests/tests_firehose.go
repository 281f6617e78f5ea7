package stacktests

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	fhtypes "github.com/aws/aws-sdk-go-v2/service/firehose/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddalmond/ruststack-integration-tests/fixtures"
)

// All delivery-stream checks target the run-scoped destination bucket, which
// outlives them and is torn down after the whole suite.
func DoDeliveryStreamTests(t *T) {
	t.Run("stream lifecycle", func(t *T) {
		fh := t.env.api.Firehose()
		name := t.RequireFixture(fixtures.DeliveryStream(t.env.api, t.env.destBucket))

		desc, err := fh.DescribeDeliveryStream(t.Context(), &firehose.DescribeDeliveryStreamInput{
			DeliveryStreamName: aws.String(name),
		})
		require.NoError(t, err)
		require.NotNil(t, desc.DeliveryStreamDescription)
		assert.Equal(t, name, aws.ToString(desc.DeliveryStreamDescription.DeliveryStreamName))
		assert.Equal(t, fhtypes.DeliveryStreamStatusActive, desc.DeliveryStreamDescription.DeliveryStreamStatus)

		list, err := fh.ListDeliveryStreams(t.Context(), &firehose.ListDeliveryStreamsInput{})
		require.NoError(t, err)
		assert.Contains(t, list.DeliveryStreamNames, name)
	})

	t.Run("put record", func(t *T) {
		fh := t.env.api.Firehose()
		name := t.RequireFixture(fixtures.DeliveryStream(t.env.api, t.env.destBucket))

		data, err := json.Marshal(map[string]interface{}{"event": "test", "value": 123})
		require.NoError(t, err)

		out, err := fh.PutRecord(t.Context(), &firehose.PutRecordInput{
			DeliveryStreamName: aws.String(name),
			Record:             &fhtypes.Record{Data: data},
		})
		require.NoError(t, err)
		assert.NotEmpty(t, aws.ToString(out.RecordId))
		assert.False(t, aws.ToBool(out.Encrypted))
	})

	t.Run("put record batch", func(t *T) {
		fh := t.env.api.Firehose()
		name := t.RequireFixture(fixtures.DeliveryStream(t.env.api, t.env.destBucket))

		records := make([]fhtypes.Record, 0, 10)
		for i := 0; i < 10; i++ {
			records = append(records, fhtypes.Record{Data: []byte(fmt.Sprintf(`{"id": %d}`, i))})
		}

		out, err := fh.PutRecordBatch(t.Context(), &firehose.PutRecordBatchInput{
			DeliveryStreamName: aws.String(name),
			Records:            records,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(0), aws.ToInt32(out.FailedPutCount))
		assert.Len(t, out.RequestResponses, 10)
	})
}
