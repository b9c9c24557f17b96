package usecase

type StoreLeadInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Business string `json:"business"`
}

type ConfirmBookingInput struct {
	Event        string
	InviteeEmail string
}

type ConfirmBookingOutput struct {
	Dispatched bool
	Channels   []string // "email", "sms", "whatsapp", in send order
}
