package quotation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/mail/mailtest"
	"github.com/angelmondragon/carpenter-backend/pkg/render"
)

func newTestSubmitter(t *testing.T, rec *mailtest.Recorder) Submitter {
	t.Helper()
	s, err := NewSubmitter(SubmitParams{Sender: rec, From: "shop@example.com", InternalTo: "team@example.com"})
	require.NoError(t, err)
	return s
}

func sampleRequest() SubmitRequest {
	return SubmitRequest{
		Items: []Line{
			{CartID: "1-40-36-80", Product: ProductRef{ID: 1, Name: "Oak <Panel>"}, SelectedDimensions: SelectedDimensions{Thickness: "40", Width: "36", Height: "80"}, Quantity: 2},
			{CartID: "2---", Product: ProductRef{ID: 2, Name: "Barn Door"}, Quantity: 1},
		},
		CustomerInfo: &CustomerInfo{Name: "Jane Doe", Email: "jane@example.com"},
	}
}

func TestSubmitSendsInternalThenCustomer(t *testing.T) {
	rec := mailtest.NewRecorder()
	require.NoError(t, newTestSubmitter(t, rec).Submit(context.Background(), sampleRequest()))

	msgs := rec.Messages()
	require.Len(t, msgs, 2)

	internal := msgs[0]
	assert.Equal(t, "team@example.com", internal.To)
	assert.Equal(t, "jane@example.com", internal.ReplyTo)
	assert.Equal(t, "The Carpenter Website", internal.FromName)
	assert.Equal(t, "New Quotation Request from Jane Doe", internal.Subject)
	assert.Contains(t, internal.Text, "Phone: Not provided")
	assert.Contains(t, internal.Text, "No message provided.")
	assert.Contains(t, internal.Text, "- 2x Oak <Panel> (W: 36″, H: 80″, T: 40mm)")
	assert.Contains(t, internal.Text, "- 1x Barn Door (N/A)")
	assert.Contains(t, internal.HTML, "Oak &lt;Panel&gt;")
	assert.NotContains(t, internal.HTML, "<Panel>")

	customer := msgs[1]
	assert.Equal(t, "jane@example.com", customer.To)
	assert.Equal(t, "The Carpenter", customer.FromName)
	assert.Equal(t, "We have received your quotation request", customer.Subject)
	assert.Contains(t, customer.HTML, "Hi Jane Doe,")
	assert.Contains(t, customer.Text, "within 1-2 business days")
}

func TestSubmitRejectsBeforeSending(t *testing.T) {
	cases := map[string]func(*SubmitRequest){
		"no items":      func(r *SubmitRequest) { r.Items = nil },
		"no customer":   func(r *SubmitRequest) { r.CustomerInfo = nil },
		"no name":       func(r *SubmitRequest) { r.CustomerInfo.Name = " " },
		"bad email":     func(r *SubmitRequest) { r.CustomerInfo.Email = "jane" },
		"zero quantity": func(r *SubmitRequest) { r.Items[0].Quantity = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			rec := mailtest.NewRecorder()
			req := sampleRequest()
			mutate(&req)

			err := newTestSubmitter(t, rec).Submit(context.Background(), req)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
			assert.Empty(t, rec.Messages())
		})
	}
}

func TestSubmitMissingInputMessage(t *testing.T) {
	err := newTestSubmitter(t, mailtest.NewRecorder()).Submit(context.Background(), SubmitRequest{})
	var typed *pkgerrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, MsgMissingInput, typed.Message())
}

func TestSubmitStopsWhenInternalEmailFails(t *testing.T) {
	rec := mailtest.NewRecorder()
	rec.FailOn = 0
	rec.Err = errors.New("smtp: 421 service not available")

	err := newTestSubmitter(t, rec).Submit(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInternal))
	assert.Len(t, rec.Messages(), 1, "customer confirmation must not be sent")
}

func TestSubmitIncludesCustomerMessage(t *testing.T) {
	rec := mailtest.NewRecorder()
	req := sampleRequest()
	note := gofakeit.Sentence(8)
	req.CustomerInfo.Message = note
	req.CustomerInfo.Phone = "555-0100"

	require.NoError(t, newTestSubmitter(t, rec).Submit(context.Background(), req))
	internal := rec.Messages()[0]
	assert.True(t, strings.Contains(internal.Text, note))
	assert.Contains(t, internal.Text, "Phone: 555-0100")
}

func TestEmailHTMLRendersItemRows(t *testing.T) {
	req := sampleRequest()
	const cell = `<td style="padding:8px;border:1px solid #ddd;">`

	html, err := render.ToString(context.Background(), internalEmailHTML(req))
	require.NoError(t, err)
	assert.Contains(t, html, "<p><strong>Phone:</strong> Not provided</p>")
	assert.Contains(t, html, "<h3>Message:</h3><p>No message provided.</p>")
	assert.Contains(t, html, "<tr>"+cell+"Oak &lt;Panel&gt;</td>"+cell+"2</td>"+cell+"W: 36″, H: 80″, T: 40mm</td></tr>")
	assert.Contains(t, html, "<tr>"+cell+"Barn Door</td>"+cell+"1</td>"+cell+"N/A</td></tr>")

	req.CustomerInfo.Name = "Jane <b>Doe</b>"
	html, err = render.ToString(context.Background(), customerEmailHTML(req))
	require.NoError(t, err)
	assert.Contains(t, html, "<p>Hi Jane &lt;b&gt;Doe&lt;/b&gt;,</p>")
	assert.Contains(t, html, "<p>Regards,<br>The Carpenter Team</p>")
}
