package freemopay

import "context"

// Gateway is the FreemoPay surface used by callers. Client is its only
// implementation.
type Gateway interface {
	EnsureToken(ctx context.Context) (string, error)
	Pay(ctx context.Context, req PaymentRequest) (PaymentResponse, error)
	CheckStatus(ctx context.Context, reference string) (StatusResponse, error)
}
