package stacktests

import (
	"context"
	"fmt"

	"github.com/eddalmond/ruststack-integration-tests/awsapi"
	"github.com/eddalmond/ruststack-integration-tests/fixtures"
	"github.com/eddalmond/ruststack-integration-tests/framework"
)

// RunTestSuite executes every check strictly sequentially and returns the
// aggregated results. Run-scoped fixtures are torn down after the last test,
// whatever the verdicts were.
func RunTestSuite(
	api *awsapi.Factory,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		env := &environment{
			api:         api,
			runFixtures: fixtures.NewRunStack(consoleLogger{}),
		}
		env.destBucket = fixtures.Bucket(api, fixtures.RunScope)
		c.Defer(func() {
			env.runFixtures.Release(context.Background())
		})

		t := &T{context: c, env: env}

		t.Run("health", DoHealthTests)
		t.Run("object storage", DoObjectStorageTests)
		t.Run("key-value store", DoTableStoreTests)
		t.Run("function registry", DoFunctionRegistryTests)
		t.Run("log store", DoLogStoreTests)
		t.Run("secret store", DoSecretStoreTests)
		t.Run("identity store", DoIdentityStoreTests)
		t.Run("http-api registry", DoHTTPAPITests)
		t.Run("delivery streams", DoDeliveryStreamTests)
	})
}

// consoleLogger reports run-level fixture activity, such as teardown of
// run-scoped fixtures after the suite, directly to standard output.
type consoleLogger struct{}

func (consoleLogger) Printf(message string, args ...interface{}) {
	fmt.Printf("  fixtures: %s\n", fmt.Sprintf(message, args...))
}
