package models

// PurchaseEvent приходит от платёжного вебхука (Stripe и т.п.).
// Сам вебхук вне ядра — мы только потребляем событие.
type PurchaseEvent struct {
	UserID     string
	Tier       Tier
	PaymentRef string
}
