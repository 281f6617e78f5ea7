package stacktests

import (
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/stretchr/testify/require"
)

func DoFunctionRegistryTests(t *T) {
	t.Run("list functions", func(t *T) {
		out, err := t.env.api.Lambda().ListFunctions(t.Context(), &lambda.ListFunctionsInput{})
		require.NoError(t, err)
		t.Debug("registry reports %d functions", len(out.Functions))
	})
}
