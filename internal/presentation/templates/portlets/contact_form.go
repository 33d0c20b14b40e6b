package portlets

import (
	"html/template"

	"github.com/AtRiskMedia/opc-go/internal/domain/entities/opc"
)

var contactFormTmpl = template.Must(template.New("contactForm").Parse(
	`{{define "contactForm"}}<div {{.Attrs}}><form method="post" action="{{.Action}}" class="opc-contact-form">` +
		`<input type="hidden" name="subject" value="{{.Subject}}">` +
		`<label>{{.NameLabel}}<input type="text" name="name" required></label>` +
		`<label>{{.EmailLabel}}<input type="email" name="email" required></label>` +
		`{{if .Phone}}<label>{{.PhoneLabel}}<input type="tel" name="phone"></label>{{end}}` +
		`<label>{{.MessageLabel}}<textarea name="message" rows="5" required></textarea></label>` +
		`<button type="submit" class="btn btn-primary"{{if .Preview}} disabled{{end}}>{{.Button}}</button>` +
		`</form></div>{{end}}`,
))

type contactFormData struct {
	Attrs        template.HTMLAttr
	Action       string
	Subject      string
	Phone        bool
	Preview      bool
	Button       string
	NameLabel    string
	EmailLabel   string
	PhoneLabel   string
	MessageLabel string
}

// ContactForm renders a mail form; it is the built-in portlet that emits a form element
type ContactForm struct {
	opc.BasePortlet
}

func NewContactForm() *ContactForm {
	return &ContactForm{
		BasePortlet: opc.NewBasePortlet(
			opc.Metadata{Class: "ContactForm", Title: "Contact form", Group: GroupForms, Active: true},
			opc.Schema{
				{Name: "action", Type: opc.TypeText, Label: "Target URL", Default: "/contact"},
				{Name: "subject", Type: opc.TypeText, Label: "Subject", Default: "Contact request"},
				{Name: "button-label", Type: opc.TypeText, Label: "Button label", Default: "Send"},
				{Name: "show-phone", Type: opc.TypeCheckbox, Label: "Ask for a phone number", Default: false},
			},
		),
	}
}

func (p *ContactForm) RendersInteractiveForms(*opc.Instance) bool { return true }

func (p *ContactForm) PreviewHTML(inst *opc.Instance, env opc.RenderEnv) string {
	return p.render(inst, env, true)
}

func (p *ContactForm) FinalHTML(inst *opc.Instance, env opc.RenderEnv, _ bool) string {
	return p.render(inst, env, false)
}

func (p *ContactForm) render(inst *opc.Instance, env opc.RenderEnv, preview bool) string {
	return execute(contactFormTmpl, "contactForm", contactFormData{
		Attrs:        attrs(inst, "opc-contact", nil),
		Action:       inst.PropertyString("action"),
		Subject:      inst.PropertyString("subject"),
		Phone:        inst.PropertyBool("show-phone"),
		Preview:      preview,
		Button:       env.Translate(inst.PropertyString("button-label")),
		NameLabel:    env.Translate("Name"),
		EmailLabel:   env.Translate("Email"),
		PhoneLabel:   env.Translate("Phone"),
		MessageLabel: env.Translate("Message"),
	})
}
