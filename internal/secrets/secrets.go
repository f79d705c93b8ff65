// Copyright (c) 2025 AgriData, Inc. All rights reserved.

// Package secrets resolves credentials from AWS Secrets Manager for
// deployments where they are not passed directly.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Override env vars allow bypassing Secrets Manager lookups (e.g.,
// smoketests/local runs). When set, the resolver returns the value directly.
const (
	HubSpotTokenEnv      = "HUBDB_SYNC_HUBSPOT_TOKEN_OVERRIDE"      //nolint:gosec // env var name, not a credential
	WarehousePasswordEnv = "HUBDB_SYNC_WAREHOUSE_PASSWORD_OVERRIDE" //nolint:gosec // env var name, not a credential
)

// GetSecretField retrieves one JSON field from an AWS Secrets Manager
// secret. The SDK's default credential chain is used (env vars, shared
// credentials file, IAM role).
func GetSecretField(ctx context.Context, secretName, region, field string) (string, error) {
	if secretName == "" {
		return "", fmt.Errorf("secret name is required for Secrets Manager")
	}
	if region == "" {
		return "", fmt.Errorf("region is required for Secrets Manager")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
	)
	if err != nil {
		return "", fmt.Errorf("create AWS config: %w", err)
	}

	svc := secretsmanager.NewFromConfig(awsCfg)
	out, err := svc.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId:     aws.String(secretName),
		VersionStage: aws.String("AWSCURRENT"),
	})
	if err != nil {
		return "", fmt.Errorf("get secret value: %w", err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret string empty for %s", secretName)
	}

	var payload map[string]string
	if err := json.Unmarshal([]byte(*out.SecretString), &payload); err != nil {
		return "", fmt.Errorf("parse secret json: %w", err)
	}
	value := payload[field]
	if value == "" {
		return "", fmt.Errorf("%s field empty in secret %s", field, secretName)
	}

	return value, nil
}

// ResolveHubSpotToken returns the HubSpot private app token. If
// HubSpotTokenEnv is set, that value is returned without any AWS call.
// Otherwise the token is fetched from Secrets Manager; the secret JSON is
// expected to contain a "token" field.
func ResolveHubSpotToken(ctx context.Context, secretName, region string) (string, error) {
	if token, ok := os.LookupEnv(HubSpotTokenEnv); ok {
		return token, nil
	}
	return GetSecretField(ctx, secretName, region, "token")
}

// ResolveWarehousePassword returns the warehouse database password. If
// WarehousePasswordEnv is set, that value is returned without any AWS call.
// Otherwise the password is fetched from Secrets Manager; the secret JSON is
// expected to contain a "password" field.
func ResolveWarehousePassword(ctx context.Context, secretName, region string) (string, error) {
	if pwd, ok := os.LookupEnv(WarehousePasswordEnv); ok {
		return pwd, nil
	}
	return GetSecretField(ctx, secretName, region, "password")
}
