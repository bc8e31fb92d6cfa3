package aws

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"go.uber.org/zap"
)

// DefaultSecretsPrefix namespaces every key the backend reads from Secrets Manager.
const DefaultSecretsPrefix = "vastrashahi/"

var ErrSecretNotFound = errors.New("secret not found")

// SecretsAPI is the part of the Secrets Manager client SecretsClient uses.
type SecretsAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsClient resolves config keys under a prefix and caches the values for the process lifetime.
type SecretsClient struct {
	api    SecretsAPI
	prefix string
	logger *zap.Logger

	mu    sync.RWMutex
	cache map[string]string
}

func NewSecretsClient(cfg sdkaws.Config, prefix string, logger *zap.Logger) *SecretsClient {
	return NewSecretsClientWithAPI(secretsmanager.NewFromConfig(cfg), prefix, logger)
}

func NewSecretsClientWithAPI(api SecretsAPI, prefix string, logger *zap.Logger) *SecretsClient {
	if prefix == "" {
		prefix = DefaultSecretsPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SecretsClient{api: api, prefix: prefix, logger: logger, cache: make(map[string]string)}
}

// SecretID is the Secrets Manager id key is stored under.
func (s *SecretsClient) SecretID(key string) string {
	return s.prefix + strings.TrimPrefix(key, s.prefix)
}

// GetSecret returns the string value of key. A missing secret is ErrSecretNotFound.
func (s *SecretsClient) GetSecret(ctx context.Context, key string) (string, error) {
	id := s.SecretID(key)
	s.mu.RLock()
	v, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		return v, nil
	}

	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: sdkaws.String(id)})
	if err != nil {
		var missing *types.ResourceNotFoundException
		if errors.As(err, &missing) {
			return "", fmt.Errorf("%s: %w", id, ErrSecretNotFound)
		}
		return "", fmt.Errorf("failed to get secret %s: %w", id, err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("secret %s has no string value", id)
	}

	s.mu.Lock()
	s.cache[id] = *out.SecretString
	s.mu.Unlock()
	return *out.SecretString, nil
}

// Overlay replaces each destination with its secret when one resolves to a non-empty value.
// Keys that cannot be read keep their current value and are logged. It returns how many were replaced.
func (s *SecretsClient) Overlay(ctx context.Context, dst map[string]*string) int {
	applied := 0
	for key, target := range dst {
		v, err := s.GetSecret(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn("Secret unavailable, keeping env value", zap.String("secret_id", s.SecretID(key)), zap.Error(err))
		case v == "":
			s.logger.Info("Secret is empty, keeping env value", zap.String("secret_id", s.SecretID(key)))
		default:
			*target = v
			applied++
		}
	}
	return applied
}
