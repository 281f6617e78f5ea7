package stacktests

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddalmond/ruststack-integration-tests/fixtures"
)

func DoTableStoreTests(t *T) {
	t.Run("table lifecycle", func(t *T) {
		ddb := t.env.api.DynamoDB()
		name := fixtures.NewID("test-table")

		_, err := ddb.CreateTable(t.Context(), &dynamodb.CreateTableInput{
			TableName: aws.String(name),
			KeySchema: []ddbtypes.KeySchemaElement{
				{AttributeName: aws.String("id"), KeyType: ddbtypes.KeyTypeHash},
			},
			AttributeDefinitions: []ddbtypes.AttributeDefinition{
				{AttributeName: aws.String("id"), AttributeType: ddbtypes.ScalarAttributeTypeS},
			},
			BillingMode: ddbtypes.BillingModePayPerRequest,
		})
		require.NoError(t, err)

		desc, err := ddb.DescribeTable(t.Context(), &dynamodb.DescribeTableInput{TableName: aws.String(name)})
		require.NoError(t, err)
		require.NotNil(t, desc.Table)
		assert.Equal(t, name, aws.ToString(desc.Table.TableName))
		assert.Equal(t, ddbtypes.TableStatusActive, desc.Table.TableStatus)

		_, err = ddb.DeleteTable(t.Context(), &dynamodb.DeleteTableInput{TableName: aws.String(name)})
		require.NoError(t, err)
	})

	t.Run("item round trip with update", func(t *T) {
		ddb := t.env.api.DynamoDB()
		table := t.RequireFixture(fixtures.Table(t.env.api))
		key := map[string]ddbtypes.AttributeValue{
			"pk": &ddbtypes.AttributeValueMemberS{Value: "user#123"},
			"sk": &ddbtypes.AttributeValueMemberS{Value: "profile"},
		}

		_, err := ddb.PutItem(t.Context(), &dynamodb.PutItemInput{
			TableName: aws.String(table),
			Item: map[string]ddbtypes.AttributeValue{
				"pk":   &ddbtypes.AttributeValueMemberS{Value: "user#123"},
				"sk":   &ddbtypes.AttributeValueMemberS{Value: "profile"},
				"name": &ddbtypes.AttributeValueMemberS{Value: "Alice"},
			},
		})
		require.NoError(t, err)

		got, err := ddb.GetItem(t.Context(), &dynamodb.GetItemInput{
			TableName: aws.String(table),
			Key:       key,
		})
		require.NoError(t, err)
		require.NotNil(t, got.Item, "item should exist after put")
		assert.Equal(t, &ddbtypes.AttributeValueMemberS{Value: "Alice"}, got.Item["name"])

		_, err = ddb.UpdateItem(t.Context(), &dynamodb.UpdateItemInput{
			TableName:                aws.String(table),
			Key:                      key,
			UpdateExpression:         aws.String("SET #n = :name"),
			ExpressionAttributeNames: map[string]string{"#n": "name"},
			ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
				":name": &ddbtypes.AttributeValueMemberS{Value: "Bob"},
			},
		})
		require.NoError(t, err)

		got, err = ddb.GetItem(t.Context(), &dynamodb.GetItemInput{
			TableName: aws.String(table),
			Key:       key,
		})
		require.NoError(t, err)
		assert.Equal(t, &ddbtypes.AttributeValueMemberS{Value: "Bob"}, got.Item["name"])

		_, err = ddb.DeleteItem(t.Context(), &dynamodb.DeleteItemInput{
			TableName: aws.String(table),
			Key:       key,
		})
		require.NoError(t, err)
	})

	t.Run("range query between bounds", func(t *T) {
		ddb := t.env.api.DynamoDB()
		table := t.RequireFixture(fixtures.Table(t.env.api))

		for i := 0; i < 5; i++ {
			_, err := ddb.PutItem(t.Context(), &dynamodb.PutItemInput{
				TableName: aws.String(table),
				Item: map[string]ddbtypes.AttributeValue{
					"pk":    &ddbtypes.AttributeValueMemberS{Value: "order#100"},
					"sk":    &ddbtypes.AttributeValueMemberS{Value: fmt.Sprintf("item#%03d", i)},
					"price": &ddbtypes.AttributeValueMemberN{Value: fmt.Sprintf("%d", i*10)},
				},
			})
			require.NoError(t, err)
		}

		// Inclusive bounds: item#001 through item#003.
		out, err := ddb.Query(t.Context(), &dynamodb.QueryInput{
			TableName:              aws.String(table),
			KeyConditionExpression: aws.String("pk = :pk AND sk BETWEEN :start AND :end"),
			ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
				":pk":    &ddbtypes.AttributeValueMemberS{Value: "order#100"},
				":start": &ddbtypes.AttributeValueMemberS{Value: "item#001"},
				":end":   &ddbtypes.AttributeValueMemberS{Value: "item#003"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, int32(3), out.Count)
		for _, item := range out.Items {
			sk, ok := item["sk"].(*ddbtypes.AttributeValueMemberS)
			require.True(t, ok, "sk should be a string attribute")
			assert.GreaterOrEqual(t, sk.Value, "item#001")
			assert.LessOrEqual(t, sk.Value, "item#003")
		}
	})
}
