package stacktests

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eddalmond/ruststack-integration-tests/fixtures"
)

const ec2TrustPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"Service": "ec2.amazonaws.com"},
    "Action": "sts:AssumeRole"
  }]
}`

const readOnlyPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Action": "s3:GetObject",
    "Resource": "*"
  }]
}`

func DoIdentityStoreTests(t *T) {
	t.Run("role lifecycle", func(t *T) {
		iamc := t.env.api.IAM()
		name := fixtures.NewID("test-role")

		created, err := iamc.CreateRole(t.Context(), &iam.CreateRoleInput{
			RoleName:                 aws.String(name),
			AssumeRolePolicyDocument: aws.String(ec2TrustPolicy),
		})
		require.NoError(t, err)
		require.NotNil(t, created.Role)
		assert.Equal(t, name, aws.ToString(created.Role.RoleName))

		got, err := iamc.GetRole(t.Context(), &iam.GetRoleInput{RoleName: aws.String(name)})
		require.NoError(t, err)
		require.NotNil(t, got.Role)
		assert.Equal(t, name, aws.ToString(got.Role.RoleName))

		_, err = iamc.DeleteRole(t.Context(), &iam.DeleteRoleInput{RoleName: aws.String(name)})
		require.NoError(t, err)
	})

	t.Run("policy attach and detach", func(t *T) {
		iamc := t.env.api.IAM()
		role := t.RequireFixture(fixtures.Role(t.env.api))

		created, err := iamc.CreatePolicy(t.Context(), &iam.CreatePolicyInput{
			PolicyName:     aws.String(fixtures.NewID("test-policy")),
			PolicyDocument: aws.String(readOnlyPolicy),
		})
		require.NoError(t, err)
		require.NotNil(t, created.Policy)
		policyArn := created.Policy.Arn
		t.Defer(func() {
			if _, err := iamc.DeletePolicy(t.Context(), &iam.DeletePolicyInput{PolicyArn: policyArn}); err != nil {
				t.Debug("policy cleanup: %v", err)
			}
		})

		_, err = iamc.AttachRolePolicy(t.Context(), &iam.AttachRolePolicyInput{
			RoleName:  aws.String(role),
			PolicyArn: policyArn,
		})
		require.NoError(t, err)

		attached, err := iamc.ListAttachedRolePolicies(t.Context(), &iam.ListAttachedRolePoliciesInput{
			RoleName: aws.String(role),
		})
		require.NoError(t, err)
		var arns []string
		for _, p := range attached.AttachedPolicies {
			arns = append(arns, aws.ToString(p.PolicyArn))
		}
		assert.Contains(t, arns, aws.ToString(policyArn))

		_, err = iamc.DetachRolePolicy(t.Context(), &iam.DetachRolePolicyInput{
			RoleName:  aws.String(role),
			PolicyArn: policyArn,
		})
		require.NoError(t, err)
	})
}
