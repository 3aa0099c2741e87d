package notifier

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"promo-checker/internal/models"
)

const timeLayout = "2006-01-02 15:04:05"

var emailTmpl = template.Must(template.New("email").Parse(`<html>
	<body>
		<p>¡Se ha detectado una promoción para el producto <strong>{{.Name}}</strong>!</p>
		<p><strong>Motivo:</strong> {{.Reason}}</p>
		<p><strong>URL del Producto:</strong> <a href="{{.URL}}">{{.URL}}</a></p>
		{{- if .Regular}}
		<p><strong>Precio Regular:</strong> {{.Regular}}</p>
		{{- end}}
		<p><strong>{{.OfferLabel}}:</strong> <font color="green">{{.Offer}}</font></p>
		{{- if .Previous}}
		<p><strong>Precio anterior notificado:</strong> {{.Previous}}</p>
		{{- end}}
		<p><em>Revisado el: {{.CheckedAt}} (UTC)</em></p>
	</body>
</html>
`))

type emailView struct {
	Name       string
	Reason     string
	URL        string
	Regular    string
	OfferLabel string
	Offer      string
	Previous   string
	CheckedAt  string
}

// Subject monta o assunto do e-mail
func Subject(n Notification) string {
	return fmt.Sprintf("¡Alerta de Promoción: %s!", n.Product.Name)
}

// HTMLBody monta o corpo HTML do e-mail
func HTMLBody(n Notification) (string, error) {
	view := emailView{
		Name:       n.Product.Name,
		Reason:     n.Reason.Label(),
		URL:        n.Product.URL,
		OfferLabel: offerLabel(n),
		Offer:      n.Decision.PriceText,
		CheckedAt:  n.CheckedAt.UTC().Format(timeLayout),
	}
	if n.Product.RegularPrice != nil {
		view.Regular = n.Product.RegularPrice.Text
	}
	if n.PreviousPrice.Valid {
		view.Previous = n.PreviousPrice.Decimal.StringFixed(2)
	}

	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("erro ao montar e-mail: %w", err)
	}
	return buf.String(), nil
}

// TelegramText monta a mensagem em HTML simples aceito pelo Telegram
func TelegramText(n Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎉 <b>%s</b>\n\n", escapeHTML(n.Reason.Label()))
	fmt.Fprintf(&b, "Producto: %s\n", escapeHTML(n.Product.Name))
	if n.Product.RegularPrice != nil {
		fmt.Fprintf(&b, "Precio regular: %s\n", escapeHTML(n.Product.RegularPrice.Text))
	}
	fmt.Fprintf(&b, "%s: <b>%s</b>\n", offerLabel(n), escapeHTML(n.Decision.PriceText))
	if n.PreviousPrice.Valid {
		fmt.Fprintf(&b, "Precio anterior: %s\n", n.PreviousPrice.Decimal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\n<a href=\"%s\">Ver producto</a>", escapeHTML(n.Product.URL))
	return b.String()
}

func offerLabel(n Notification) string {
	if n.Decision.Type == models.OfferSpecial {
		return "Precio Exclusivo Oh! y Oh! Pay"
	}
	return "Precio Promocional"
}

// escapeHTML escapa caracteres especiais do HTML
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	text = strings.ReplaceAll(text, `"`, "&quot;")
	return text
}
