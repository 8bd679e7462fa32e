package quotation

import (
	"fmt"
	"strings"
)

const (
	internalSubjectFormat = "New Quotation Request from %s"
	customerSubject       = "We have received your quotation request"
	notProvided           = "Not provided"
)

func internalSubject(info CustomerInfo) string {
	return fmt.Sprintf(internalSubjectFormat, info.Name)
}

func orNotProvided(v string) string {
	if strings.TrimSpace(v) == "" {
		return notProvided
	}
	return v
}

func messageOrDefault(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return "No message provided."
	}
	return msg
}

func itemsText(items []Line) string {
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "- %dx %s (%s)\n", item.Quantity, item.Product.Name, item.SelectedDimensions.Text())
	}
	return b.String()
}

func internalEmailText(req SubmitRequest) string {
	info := req.CustomerInfo
	var b strings.Builder
	b.WriteString("New Quotation Request\n\n")
	b.WriteString("Customer Information:\n")
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\nAddress: %s\n\n", info.Name, info.Email, orNotProvided(info.Phone), orNotProvided(info.Address))
	fmt.Fprintf(&b, "Message:\n%s\n\n", messageOrDefault(info.Message))
	b.WriteString("Requested Items:\n")
	b.WriteString(itemsText(req.Items))
	return b.String()
}

func customerEmailText(req SubmitRequest) string {
	var b strings.Builder
	b.WriteString("Thank you for your quotation request!\n\n")
	fmt.Fprintf(&b, "Hi %s,\n\n", req.CustomerInfo.Name)
	b.WriteString("We've received your request and will get back to you within 1-2 business days. Below is a summary of the items you requested.\n\n")
	b.WriteString("Your Requested Items:\n")
	b.WriteString(itemsText(req.Items))
	b.WriteString("\nIf you have any questions, please reply to this email.\n\nRegards,\nThe Carpenter Team\n")
	return b.String()
}
