package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/lifelog/internal/common"
	"github.com/dmitrijs2005/lifelog/internal/server/repositories/repomanager"
)

// IdentityResolver maps an authenticated principal (a username) to the
// durable user id. Callers resolve once per request and pass the id down.
type IdentityResolver struct {
	repomanager repomanager.RepositoryManager
}

func NewIdentityResolver(m repomanager.RepositoryManager) *IdentityResolver {
	return &IdentityResolver{repomanager: m}
}

func (r *IdentityResolver) Resolve(ctx context.Context, principal string) (string, error) {
	if principal == "" {
		return "", common.ErrorUnknownPrincipal
	}
	user, err := r.repomanager.Users().GetByUsername(ctx, principal)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", fmt.Errorf("%w: %q", common.ErrorUnknownPrincipal, principal)
		}
		return "", fmt.Errorf("resolve principal: %w", err)
	}
	return user.ID, nil
}
