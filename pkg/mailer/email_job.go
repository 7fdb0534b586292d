package mailer

// EmailJob is one rendered message ready for a Sender. Template records which
// embedded template produced it.
type EmailJob struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	Text     string `json:"text,omitempty"`
	HTML     string `json:"html,omitempty"`
	Template string `json:"template,omitempty"` // e.g. "order_created", "order_cancelled"
}
