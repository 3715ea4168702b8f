package enum

// ── Order lifecycle (linear, one-directional) ──

const (
	OrderStatusPending   = "pending"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusServed    = "served"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// ── Checkout session states ──

const (
	SessionActive     = "active"
	SessionProcessing = "processing"
)

// ── Configurable labels (no state machine) ──

const (
	PaymentMethodCash = "cash"
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
	PaymentMethodQR   = "qr"
)

const (
	UserRoleAdmin = "ADMIN"
	UserRoleStaff = "STAFF"
)
