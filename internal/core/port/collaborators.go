package port

import "context"

// ShopDirectory resolves ownership of link targets against the catalog
// service. The engine only needs a yes/no answer: does the target point at
// the owner's shop or one of the owner's products.
type ShopDirectory interface {
	// ResolveLinkTarget returns nil when target belongs to ownerID and
	// ErrLinkTargetInvalid otherwise.
	ResolveLinkTarget(ctx context.Context, ownerID, target string) error
}

// MediaStore is the binary media collaborator. Uploads happen outside the
// engine; the engine stores {url, publicId} opaquely and only calls the
// delete hook when media is replaced.
type MediaStore interface {
	Delete(ctx context.Context, publicID string) error
}

// Notifier is the outbound notification sink. Delivery is best-effort:
// failures are logged by callers and never block a state transition.
type Notifier interface {
	Notify(ctx context.Context, recipient, subject, body string) error
}

// PaymentGateway captures a payment. The engine calls it only from the
// auto-renewal job; user-initiated payments arrive as completed signals.
type PaymentGateway interface {
	// Capture returns the gateway's payment id on success.
	Capture(ctx context.Context, amountCents int64, method string) (string, error)
}
