package notification

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"trimly/models"
	"trimly/utils"
)

var nonDigitRe = regexp.MustCompile(`\D`)

// WhatsAppLink builds a wa.me deep link with the Brazilian country code and
// a prefilled message. Returns "" when the phone has no digits.
func WhatsAppLink(phone, message string) string {
	digits := nonDigitRe.ReplaceAllString(phone, "")
	if strings.HasPrefix(digits, "55") && len(digits) > 11 {
		digits = digits[2:]
	}
	if digits == "" {
		return ""
	}
	return fmt.Sprintf("https://wa.me/55%s?text=%s", digits, url.QueryEscape(message))
}

// BookingConfirmedMessage is the text sent to the shop when a reservation is
// created. rows are the chained bookings in order; services in row order.
func BookingConfirmedMessage(customerName, customerPhone string, rows []models.Booking, serviceNames []string) string {
	if len(rows) == 0 {
		return ""
	}
	first := rows[0]
	last := rows[len(rows)-1]
	return fmt.Sprintf(
		"Prezado(a) %s, seu agendamento foi confirmado com sucesso.\n"+
			"Servicos: %s\n"+
			"Data: %s\n"+
			"Horario: %s ate %s\n"+
			"Contato: %s",
		customerName,
		strings.Join(serviceNames, ", "),
		utils.FormatCivilDateBR(first.Date),
		first.StartTime,
		last.EndTime,
		customerPhone,
	)
}

// ReminderMessage is the text for the shop-facing reminder list built by the
// scheduled sweep.
func ReminderMessage(customerName, serviceName string, b models.Booking) string {
	return fmt.Sprintf(
		"Lembrete de agendamento:\n"+
			"Cliente: %s\n"+
			"Servico: %s\n"+
			"Data: %s\n"+
			"Horario: %s",
		customerName,
		serviceName,
		utils.FormatCivilDateBR(b.Date),
		b.StartTime,
	)
}

// CustomerReminderMessage is the text sent directly to the customer.
func CustomerReminderMessage(customerName, shopName string, b models.Booking) string {
	return fmt.Sprintf(
		"Ola %s, lembrando do seu horario na %s.\n"+
			"Data: %s\n"+
			"Horario: %s",
		customerName,
		shopName,
		utils.FormatCivilDateBR(b.Date),
		b.StartTime,
	)
}
