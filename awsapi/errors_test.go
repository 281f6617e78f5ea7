package awsapi

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundMatchesServiceCodes(t *testing.T) {
	for _, code := range []string{
		"NoSuchBucket", "NoSuchKey", "ResourceNotFoundException", "NoSuchEntity", "NotFoundException",
	} {
		err := &smithy.GenericAPIError{Code: code, Message: "does not exist"}
		assert.True(t, IsNotFound(err), code)
		assert.True(t, IsNotFound(fmt.Errorf("deleting resource: %w", err)), "wrapped %s", code)
	}
}

func TestIsNotFoundRejectsOtherErrors(t *testing.T) {
	assert.False(t, IsNotFound(errors.New("connection refused")))
	assert.False(t, IsNotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, IsNotFound(nil))
}
