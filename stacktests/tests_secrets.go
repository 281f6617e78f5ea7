package stacktests

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddalmond/ruststack-integration-tests/fixtures"
)

func DoSecretStoreTests(t *T) {
	t.Run("secret lifecycle", func(t *T) {
		secrets := t.env.api.SecretsManager()
		name := fixtures.NewID("test-secret")

		_, err := secrets.CreateSecret(t.Context(), &secretsmanager.CreateSecretInput{
			Name:         aws.String(name),
			SecretString: aws.String(`{"api_key": "abc123"}`),
		})
		require.NoError(t, err)

		assert.Equal(t, "abc123", secretField(t, name, "api_key"))

		_, err = secrets.PutSecretValue(t.Context(), &secretsmanager.PutSecretValueInput{
			SecretId:     aws.String(name),
			SecretString: aws.String(`{"api_key": "xyz789"}`),
		})
		require.NoError(t, err)

		assert.Equal(t, "xyz789", secretField(t, name, "api_key"))

		_, err = secrets.DeleteSecret(t.Context(), &secretsmanager.DeleteSecretInput{
			SecretId:                   aws.String(name),
			ForceDeleteWithoutRecovery: aws.Bool(true),
		})
		require.NoError(t, err)
	})

	t.Run("put value creates new version", func(t *T) {
		secrets := t.env.api.SecretsManager()
		name := t.RequireFixture(fixtures.Secret(t.env.api))

		v1, err := secrets.GetSecretValue(t.Context(), &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(name),
		})
		require.NoError(t, err)

		_, err = secrets.PutSecretValue(t.Context(), &secretsmanager.PutSecretValueInput{
			SecretId:     aws.String(name),
			SecretString: aws.String(`{"username": "admin", "password": "newpassword"}`),
		})
		require.NoError(t, err)

		v2, err := secrets.GetSecretValue(t.Context(), &secretsmanager.GetSecretValueInput{
			SecretId: aws.String(name),
		})
		require.NoError(t, err)

		assert.NotEqual(t, aws.ToString(v1.VersionId), aws.ToString(v2.VersionId),
			"a new version id should be assigned")
		assert.Contains(t, v2.VersionStages, "AWSCURRENT")
	})
}

func secretField(t *T, secretID, field string) string {
	out, err := t.env.api.SecretsManager().GetSecretValue(t.Context(), &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	require.NoError(t, err)

	var value map[string]string
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(out.SecretString)), &value))
	return value[field]
}
