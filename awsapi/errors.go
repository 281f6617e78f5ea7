package awsapi

import (
	"errors"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

// Error codes the service returns when the referenced resource does not
// exist. Fixture teardown treats these as ignorable: the test body may have
// already deleted the resource as part of its assertions.
var notFoundCodes = map[string]struct{}{
	"NoSuchBucket":              {},
	"NoSuchKey":                 {},
	"ResourceNotFoundException": {},
	"NoSuchEntity":              {},
	"NotFoundException":         {},
	"ResourceNotFound":          {},
}

// IsNotFound reports whether err is a "resource does not exist" class error
// from the service.
func IsNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if _, ok := notFoundCodes[apiErr.ErrorCode()]; ok {
			return true
		}
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		return respErr.HTTPStatusCode() == http.StatusNotFound
	}
	return false
}
