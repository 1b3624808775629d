package config

import (
	"context"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"

	"smarthire/internal/errors"
)

// VaultClient wraps the HashiCorp Vault API client
type VaultClient struct {
	client *vault.Client
	mount  string
}

// NewVaultClient creates a Vault client from the given configuration
func NewVaultClient(cfg VaultConfig) (*VaultClient, error) {
	vaultCfg := vault.DefaultConfig()
	vaultCfg.Address = cfg.Address
	vaultCfg.Timeout = 10 * time.Second

	client, err := vault.NewClient(vaultCfg)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to create vault client", err)
	}
	client.SetToken(cfg.Token)

	return &VaultClient{client: client, mount: cfg.MountPath}, nil
}

// GetSecretV2 reads a secret from a KV version 2 mount
func (vc *VaultClient) GetSecretV2(ctx context.Context, path string) (map[string]interface{}, error) {
	secret, err := vc.client.KVv2(vc.mount).Get(ctx, path)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("failed to read vault secret at %s/%s", vc.mount, path), err)
	}
	if secret == nil || secret.Data == nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("no data at vault path %s/%s", vc.mount, path), nil)
	}
	return secret.Data, nil
}

// GetStringSecret reads a single string value from a KV v2 secret
func (vc *VaultClient) GetStringSecret(ctx context.Context, path, key string) (string, error) {
	data, err := vc.GetSecretV2(ctx, path)
	if err != nil {
		return "", err
	}
	val, ok := data[key]
	if !ok {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("key %q not found in vault secret %s/%s", key, vc.mount, path), nil)
	}
	s, ok := val.(string)
	if !ok {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("key %q in vault secret %s/%s is not a string", key, vc.mount, path), nil)
	}
	return s, nil
}

// ApplyVaultSecrets loads secrets from Vault into the configuration.
// Currently only the backend API key is stored in Vault.
func ApplyVaultSecrets(cfg *Config) error {
	vc, err := NewVaultClient(cfg.Vault)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	apiKey, err := vc.GetStringSecret(ctx, cfg.Vault.SecretPath, "backend_api_key")
	if err != nil {
		return err
	}
	cfg.Backend.APIKey = apiKey
	return nil
}
