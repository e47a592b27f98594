// Package pinning provides factory functions for creating content upload
// adapters from settings.
package pinning

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docproof/internal/adapters/driven/pinning/kubo"
	"github.com/custodia-labs/docproof/internal/adapters/driven/pinning/pinata"
	"github.com/custodia-labs/docproof/internal/core/domain"
	"github.com/custodia-labs/docproof/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// Pinger is implemented by pinners that can check their credential and
// endpoint without uploading anything.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CreatePinner creates the pinner selected by settings.
func CreatePinner(settings domain.PinningSettings) (driven.Pinner, error) {
	switch settings.Provider {
	case domain.PinningPinata, "":
		return pinata.New(pinata.Config{
			Endpoint:          settings.Endpoint,
			JWT:               settings.JWT,
			Timeout:           settings.Timeout,
			RequestsPerSecond: settings.RequestsPerSecond,
		}), nil

	case domain.PinningKubo:
		return kubo.New(kubo.Config{
			Endpoint:          settings.Endpoint,
			ProjectID:         settings.ProjectID,
			ProjectSecret:     settings.ProjectSecret,
			Timeout:           settings.Timeout,
			RequestsPerSecond: settings.RequestsPerSecond,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported pinning provider: %s", settings.Provider)
	}
}

// Validate pings the pinner if it supports it.
func Validate(ctx context.Context, p driven.Pinner) error {
	pinger, ok := p.(Pinger)
	if !ok {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pinger.Ping(ctx); err != nil {
		return fmt.Errorf("%s unreachable: %w", p.Name(), err)
	}
	return nil
}
