package stacktests

import (
	"bytes"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddalmond/ruststack-integration-tests/awsapi"
	"github.com/eddalmond/ruststack-integration-tests/fixtures"
)

func DoObjectStorageTests(t *T) {
	t.Run("container lifecycle", func(t *T) {
		s3c := t.env.api.S3()
		name := fixtures.NewID("test-bucket")

		_, err := s3c.CreateBucket(t.Context(), &s3.CreateBucketInput{Bucket: aws.String(name)})
		require.NoError(t, err)
		t.Debug("created bucket %s", name)

		assert.Contains(t, listBucketNames(t), name)

		_, err = s3c.DeleteBucket(t.Context(), &s3.DeleteBucketInput{Bucket: aws.String(name)})
		require.NoError(t, err)

		assert.NotContains(t, listBucketNames(t), name)
	})

	t.Run("object round trip", func(t *T) {
		s3c := t.env.api.S3()
		bucket := t.RequireFixture(fixtures.Bucket(t.env.api, fixtures.TestScope))
		key := "a.txt"
		body := []byte("hi")

		_, err := s3c.PutObject(t.Context(), &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(body),
		})
		require.NoError(t, err)

		got, err := s3c.GetObject(t.Context(), &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		require.NoError(t, err)
		data, err := io.ReadAll(got.Body)
		got.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, body, data, "object content should round-trip byte for byte")

		_, err = s3c.DeleteObject(t.Context(), &s3.DeleteObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		require.NoError(t, err)

		_, err = s3c.GetObject(t.Context(), &s3.GetObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
		})
		require.Error(t, err, "reading a deleted object should fail")
		assert.True(t, awsapi.IsNotFound(err), "expected a not-found class error, got: %v", err)
	})

	t.Run("list objects by prefix", func(t *T) {
		s3c := t.env.api.S3()
		bucket := t.RequireFixture(fixtures.Bucket(t.env.api, fixtures.TestScope))

		for key, content := range map[string]string{
			"docs/file1.txt": "1",
			"docs/file2.txt": "2",
			"images/pic.png": "3",
		} {
			_, err := s3c.PutObject(t.Context(), &s3.PutObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
				Body:   bytes.NewReader([]byte(content)),
			})
			require.NoError(t, err)
		}

		list, err := s3c.ListObjectsV2(t.Context(), &s3.ListObjectsV2Input{
			Bucket: aws.String(bucket),
			Prefix: aws.String("docs/"),
		})
		require.NoError(t, err)

		var keys []string
		for _, obj := range list.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
		assert.Contains(t, keys, "docs/file1.txt")
		assert.Contains(t, keys, "docs/file2.txt")
		assert.NotContains(t, keys, "images/pic.png")
	})
}

func listBucketNames(t *T) []string {
	out, err := t.env.api.S3().ListBuckets(t.Context(), &s3.ListBucketsInput{})
	require.NoError(t, err)
	var names []string
	for _, b := range out.Buckets {
		names = append(names, aws.ToString(b.Name))
	}
	return names
}
