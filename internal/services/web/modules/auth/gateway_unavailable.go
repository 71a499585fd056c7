package auth

import (
	"context"

	apperrors "github.com/louisbranch/teamdesk/internal/services/web/platform/errors"
)

type unavailableGateway struct{}

func (unavailableGateway) Login(context.Context, string, string) (SignIn, error) {
	return SignIn{}, apperrors.EK(apperrors.KindUnavailable, "core.error.unavailable", "tenant api is not configured")
}
