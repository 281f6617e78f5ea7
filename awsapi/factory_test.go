package awsapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFactoryRejectsInvalidSettings(t *testing.T) {
	s := DefaultSettings("://nope")
	_, err := NewFactory(s)
	assert.Error(t, err)
}

func TestFactoryReusesClients(t *testing.T) {
	f, err := NewFactory(DefaultSettings("http://localhost:4566"))
	require.NoError(t, err)

	assert.Same(t, f.S3(), f.S3())
	assert.Same(t, f.DynamoDB(), f.DynamoDB())
	assert.Same(t, f.Lambda(), f.Lambda())
	assert.Same(t, f.Logs(), f.Logs())
	assert.Same(t, f.SecretsManager(), f.SecretsManager())
	assert.Same(t, f.IAM(), f.IAM())
	assert.Same(t, f.APIGateway(), f.APIGateway())
	assert.Same(t, f.Firehose(), f.Firehose())
}
