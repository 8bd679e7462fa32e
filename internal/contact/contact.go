package contact

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/angelmondragon/carpenter-backend/pkg/mail"
	"github.com/angelmondragon/carpenter-backend/pkg/render"
)

const (
	MsgSent          = "Message sent successfully!"
	MsgMissingFields = "Missing required fields"
	MsgSendFailed    = "Failed to send message."
	msgInvalidEmail  = "A valid email address is required"

	customerSubject = "We have received your message"
	fromName        = "The Carpenter"
)

// Request is a contact form submission.
type Request struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
	Phone   string `json:"phone,omitempty"`
}

type Params struct {
	Sender     mail.Sender
	From       string
	InternalTo string
	Logger     *logger.Logger
}

// Service relays contact form messages to staff and confirms receipt to the
// sender.
type Service interface {
	Send(ctx context.Context, req Request) error
}

type service struct {
	sender     mail.Sender
	from       string
	internalTo string
	logg       *logger.Logger
	validate   *validator.Validate
}

func NewService(params Params) (Service, error) {
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mail sender is required")
	}
	return &service{
		sender:     params.Sender,
		from:       params.From,
		internalTo: params.InternalTo,
		logg:       params.Logger,
		validate:   validator.New(),
	}, nil
}

func (s *service) Send(ctx context.Context, req Request) error {
	req = trim(req)
	if err := s.validate.Struct(req); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, MsgMissingFields)
	}
	if err := s.validate.Var(req.Email, "email"); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, msgInvalidEmail)
	}

	internalHTML, err := render.ToString(ctx, internalBody(req))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgSendFailed)
	}
	customerHTML, err := render.ToString(ctx, customerBody(req))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgSendFailed)
	}

	internal := mail.Message{
		Kind:     "contact.internal",
		FromName: fromName,
		From:     s.from,
		To:       s.internalTo,
		ReplyTo:  req.Email,
		Subject:  fmt.Sprintf("New Contact Form Submission: %s", req.Subject),
		Text:     internalText(req),
		HTML:     internalHTML,
	}
	if err := s.sender.Send(ctx, internal); err != nil {
		return s.failed(ctx, err)
	}

	customer := mail.Message{
		Kind:     "contact.customer",
		FromName: fromName,
		From:     s.from,
		To:       req.Email,
		Subject:  customerSubject,
		Text:     customerText(req),
		HTML:     customerHTML,
	}
	if err := s.sender.Send(ctx, customer); err != nil {
		return s.failed(ctx, err)
	}

	if s.logg != nil {
		s.logg.Info(ctx, "contact.sent")
	}
	return nil
}

func (s *service) failed(ctx context.Context, err error) error {
	if s.logg != nil {
		s.logg.Error(ctx, "contact.send_failed", err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgSendFailed)
}

func trim(r Request) Request {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Subject = strings.TrimSpace(r.Subject)
	r.Phone = strings.TrimSpace(r.Phone)
	if strings.TrimSpace(r.Message) == "" {
		r.Message = ""
	}
	return r
}

func phoneOrDefault(p string) string {
	if p == "" {
		return "Not provided"
	}
	return p
}

func internalText(req Request) string {
	var b strings.Builder
	b.WriteString("New Contact Form Submission\n\n")
	fmt.Fprintf(&b, "Subject: %s\n\n", req.Subject)
	fmt.Fprintf(&b, "Sender Information:\nName: %s\nEmail: %s\nPhone: %s\n\n", req.Name, req.Email, phoneOrDefault(req.Phone))
	fmt.Fprintf(&b, "Message:\n%s\n", req.Message)
	return b.String()
}

func customerText(req Request) string {
	var b strings.Builder
	b.WriteString("We've received your message\n\n")
	fmt.Fprintf(&b, "Hi %s,\n\n", req.Name)
	b.WriteString("Thank you for contacting us. We have received your message and will get back to you as soon as possible.\n\n")
	b.WriteString("For your records, here is a copy of your message:\n\n")
	fmt.Fprintf(&b, "Subject: %s\n%s\n\n", req.Subject, req.Message)
	b.WriteString("Regards,\nThe Carpenter Team\n")
	return b.String()
}
