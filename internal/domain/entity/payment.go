package entity

import "strings"

// PaymentMethod how a sale was paid
type PaymentMethod struct {
	Key   string
	Label string
}

// PaymentMethods in keyboard order
var PaymentMethods = []PaymentMethod{
	{Key: "paypal", Label: "💳 PayPal"},
	{Key: "amazon", Label: "📦 Amazon"},
	{Key: "zelle", Label: "💰 Zelle"},
	{Key: "efectivo", Label: "💵 Efectivo"},
	{Key: "deposito", Label: "🏦 Depósito"},
	{Key: "otro", Label: "📝 Otro"},
}

// PaymentMethodFromKey unknown keys are kept verbatim as their own label
func PaymentMethodFromKey(key string) PaymentMethod {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, m := range PaymentMethods {
		if m.Key == key {
			return m
		}
	}
	return PaymentMethod{Key: key, Label: key}
}

var paymentKeywords = map[string][]string{
	"paypal":   {"paypal"},
	"amazon":   {"amazon"},
	"zelle":    {"zelle"},
	"efectivo": {"efectivo", "cash", "en mano"},
	"deposito": {"deposito", "depósito", "transferencia", "banco"},
}

// DetectPaymentMethod finds a payment keyword in free text
func DetectPaymentMethod(text string) (PaymentMethod, bool) {
	lower := strings.ToLower(text)
	for _, m := range PaymentMethods {
		for _, kw := range paymentKeywords[m.Key] {
			if strings.Contains(lower, kw) {
				return m, true
			}
		}
	}
	return PaymentMethod{}, false
}
