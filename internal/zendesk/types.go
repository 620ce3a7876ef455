package zendesk

// Ticket is a support-request record in the Zendesk Tickets API.
type Ticket struct {
	Subject   string    `json:"subject"`
	Comment   Comment   `json:"comment"`
	Requester Requester `json:"requester"`
	Priority  string    `json:"priority"`
	Tags      []string  `json:"tags"`
}

// Comment is the ticket body. Uploads carries upload tokens returned by the
// attachments endpoint; an empty slice is omitted from the wire payload.
type Comment struct {
	Body    string   `json:"body"`
	Uploads []string `json:"uploads,omitempty"`
}

// Requester identifies who opened the ticket.
type Requester struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// createRequest is the wire envelope for a ticket create call
type createRequest struct {
	Ticket Ticket `json:"ticket"`
}

// createResponse is the success envelope of a ticket create call
type createResponse struct {
	Ticket struct {
		ID int64 `json:"id"`
	} `json:"ticket"`
}

// uploadResponse is the envelope of an attachment upload call
type uploadResponse struct {
	Upload struct {
		Token string `json:"token"`
	} `json:"upload"`
}

// TicketResult is the outcome of a successful ticket create. Zendesk may
// answer 2xx with an empty body; Note records that the ID is unknown.
type TicketResult struct {
	ID   int64
	URL  string
	Note string
}
