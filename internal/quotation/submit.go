package quotation

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/angelmondragon/carpenter-backend/pkg/mail"
	"github.com/angelmondragon/carpenter-backend/pkg/render"
)

const (
	MsgSubmitted      = "Quotation request sent successfully!"
	MsgMissingInput   = "Missing items or customer info"
	MsgSubmitFailed   = "Failed to send quotation request."
	msgInvalidContact = "Customer name and a valid email are required"

	internalFromName = "The Carpenter Website"
	customerFromName = "The Carpenter"
)

type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Message string `json:"message,omitempty"`
}

type SubmitRequest struct {
	Items        []Line        `json:"items"`
	CustomerInfo *CustomerInfo `json:"customerInfo"`
}

// SubmitParams wires the quote submission service.
type SubmitParams struct {
	Sender mail.Sender
	// From is the sending address; InternalTo receives the staff notification.
	From       string
	InternalTo string
	Logger     *logger.Logger
}

// Submitter turns a cart into a staff notification plus a customer
// confirmation.
type Submitter interface {
	Submit(ctx context.Context, req SubmitRequest) error
}

type submitter struct {
	sender     mail.Sender
	from       string
	internalTo string
	logg       *logger.Logger
	validate   *validator.Validate
}

func NewSubmitter(params SubmitParams) (Submitter, error) {
	if params.Sender == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mail sender is required")
	}
	return &submitter{
		sender:     params.Sender,
		from:       params.From,
		internalTo: params.InternalTo,
		logg:       params.Logger,
		validate:   validator.New(),
	}, nil
}

// Submit validates the request before any email is built. The staff email is
// sent first; if it fails the customer is never told the request arrived.
func (s *submitter) Submit(ctx context.Context, req SubmitRequest) error {
	if err := s.check(req); err != nil {
		return err
	}
	info := *req.CustomerInfo

	internalHTML, err := render.ToString(ctx, internalEmailHTML(req))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgSubmitFailed)
	}
	customerHTML, err := render.ToString(ctx, customerEmailHTML(req))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgSubmitFailed)
	}

	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"items":      len(req.Items),
			"item_count": countUnits(req.Items),
		})
	}

	internal := mail.Message{
		Kind:     "quotation.internal",
		FromName: internalFromName,
		From:     s.from,
		To:       s.internalTo,
		ReplyTo:  info.Email,
		Subject:  internalSubject(info),
		Text:     internalEmailText(req),
		HTML:     internalHTML,
	}
	if err := s.sender.Send(ctx, internal); err != nil {
		return s.failed(ctx, err)
	}

	customer := mail.Message{
		Kind:     "quotation.customer",
		FromName: customerFromName,
		From:     s.from,
		To:       info.Email,
		Subject:  customerSubject,
		Text:     customerEmailText(req),
		HTML:     customerHTML,
	}
	if err := s.sender.Send(ctx, customer); err != nil {
		return s.failed(ctx, err)
	}

	if s.logg != nil {
		s.logg.Info(ctx, "quotation.submitted")
	}
	return nil
}

func (s *submitter) check(req SubmitRequest) error {
	if len(req.Items) == 0 || req.CustomerInfo == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, MsgMissingInput)
	}
	info := req.CustomerInfo
	if strings.TrimSpace(info.Name) == "" || s.validate.Var(strings.TrimSpace(info.Email), "required,email") != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, msgInvalidContact)
	}
	for _, item := range req.Items {
		if item.Quantity < 1 || strings.TrimSpace(item.Product.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, MsgMissingInput)
		}
	}
	return nil
}

func (s *submitter) failed(ctx context.Context, err error) error {
	if s.logg != nil {
		s.logg.Error(ctx, "quotation.submit_failed", err)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, MsgSubmitFailed)
}

func countUnits(items []Line) int {
	total := 0
	for _, l := range items {
		total += l.Quantity
	}
	return total
}
