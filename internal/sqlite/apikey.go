package sqlite

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/ganot/tasktrack/internal/auth"
	"github.com/ganot/tasktrack/internal/repository"
)

// APIKeyRepository stores hashed API keys and resolves them to principals.
type APIKeyRepository struct {
	db *DB
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db}
}

// CreateAPIKey issues a new key for the tenant and user. Only the hash is stored;
// the returned plaintext cannot be recovered later.
func (r *APIKeyRepository) CreateAPIKey(ctx context.Context, tenantID, userID, description string) (string, error) {
	if tenantID == "" || userID == "" {
		return "", fmt.Errorf("tenant and user are required")
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	token := "tt_" + hex.EncodeToString(buf)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, tenant_id, user_id, created_at, description) VALUES (?, ?, ?, ?, ?)`,
		HashToken(token), tenantID, userID, time.Now(), description,
	)
	if err != nil {
		return "", fmt.Errorf("failed to store api key: %w", err)
	}
	return token, nil
}

// ResolvePrincipal looks up the tenant and user for a plaintext key and
// records its last use.
func (r *APIKeyRepository) ResolvePrincipal(ctx context.Context, token string) (auth.Principal, error) {
	hash := HashToken(token)

	var p auth.Principal
	err := r.db.QueryRowContext(ctx,
		`SELECT tenant_id, user_id FROM api_keys WHERE key_hash = ?`, hash,
	).Scan(&p.TenantID, &p.UserID)
	if err == sql.ErrNoRows {
		return auth.Principal{}, repository.ErrNotFound
	}
	if err != nil {
		return auth.Principal{}, fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, time.Now(), hash); err != nil {
		return auth.Principal{}, fmt.Errorf("failed to touch api key: %w", err)
	}
	return p, nil
}

// HashToken returns the stored form of an API key.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
