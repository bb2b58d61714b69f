// Package checkout builds the WhatsApp handoff for a finished cart. The
// customer opens the deep link on their own device and sends the pre-filled
// message to the store; no delivery confirmation ever comes back.
package checkout

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/savioluz/deliveryitaueira/internal/domain"
)

const waBaseURL = "https://wa.me/"

// OrderLink returns the wa.me deep link that opens the customer's messaging
// app with the full order message addressed to the store.
func OrderLink(settings domain.StoreSettings, order domain.Order) string {
	phone := digits(settings.Whatsapp)
	return waBaseURL + phone + "?text=" + url.QueryEscape(OrderMessage(settings, order))
}

// OrderMessage renders the order in the storefront's message shape: customer
// block, itemized lines, totals, optional observations.
func OrderMessage(settings domain.StoreSettings, order domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🍽️ *Novo Pedido - %s*\n\n", settings.Name)
	fmt.Fprintf(&b, "👤 *Cliente:* %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "📱 *Telefone do Cliente:* %s\n", order.Customer.Phone)
	fmt.Fprintf(&b, "📍 *Endereço:* %s\n", order.Customer.Address)
	if order.Customer.Complement != "" {
		fmt.Fprintf(&b, "🏠 *Complemento:* %s\n", order.Customer.Complement)
	}
	fmt.Fprintf(&b, "🏘️ *Bairro:* %s\n\n", order.Customer.Neighborhood)

	b.WriteString("🛒 *Itens do Pedido:*\n")
	if settings.QuantityPricingEnabled {
		pieces := 0
		for _, it := range order.Items {
			fmt.Fprintf(&b, "• %dx %s\n", it.Quantity, it.Name)
			pieces += it.Quantity
		}
		unit := settings.QuantityTier1Price
		if pieces > settings.QuantityTier1Max {
			unit = settings.QuantityTier2Price
		}
		fmt.Fprintf(&b, "\n💰 *Preço por peça:* R$ %s\n", FormatBRL(unit))
		fmt.Fprintf(&b, "📊 *Total de peças:* %d\n", pieces)
	} else {
		for _, it := range order.Items {
			fmt.Fprintf(&b, "• %dx %s - R$ %s\n", it.Quantity, it.Name, FormatBRL(it.Price*float64(it.Quantity)))
		}
	}

	b.WriteString("\n💰 *Resumo:*\n")
	fmt.Fprintf(&b, "Subtotal: R$ %s\n", FormatBRL(order.Subtotal))
	fmt.Fprintf(&b, "Taxa de entrega: R$ %s\n", FormatBRL(order.DeliveryFee))
	fmt.Fprintf(&b, "*Total: R$ %s*\n", FormatBRL(order.Total))

	if order.Customer.Observations != "" {
		fmt.Fprintf(&b, "\n📝 *Observações:* %s", order.Customer.Observations)
	}

	return b.String()
}

// StatusLink returns the deep link the admin uses to tell the customer about
// a status change.
func StatusLink(order domain.Order) string {
	phone := digits(order.Customer.Phone)
	if !strings.HasPrefix(phone, "55") {
		phone = "55" + phone
	}
	return waBaseURL + phone + "?text=" + url.QueryEscape(StatusMessage(order))
}

// StatusMessage renders the admin's status notification for the customer.
func StatusMessage(order domain.Order) string {
	return fmt.Sprintf("Olá %s! Seu pedido #%s foi atualizado para: %s",
		order.Customer.Name, ShortID(order.ID), StatusLabel(order.Status))
}

// StatusLabel is the display name for a stored status value.
func StatusLabel(s domain.OrderStatus) string {
	switch s {
	case domain.OrderStatusPreparing:
		return "Em Preparo"
	case domain.OrderStatusDone:
		return "Concluído"
	default:
		return "Recebido"
	}
}

// ShortID is the order reference shown to customers: the last six characters.
func ShortID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}

// FormatBRL renders a price with the decimal comma and two places.
func FormatBRL(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
}

func digits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
