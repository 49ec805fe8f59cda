package usecase

import "time"

const (
	DefaultPhonePrefix = "+375"
	SessionFlagKey     = "applicationSent"
	ThankYouPath       = "/thank-you"
	HomePath           = "/"

	GenericSubmitError     = "Не удалось отправить заявку. Пожалуйста, попробуйте позже."
	ValidationFailedBanner = "Проверьте правильность заполнения формы"
)

// SubmitApplicationInput holds the raw form values.
type SubmitApplicationInput struct {
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`
	Phone     string `json:"phone"`
	Telegram  string `json:"telegram"`
	Source    string `json:"source"`
}

// DefaultInput is what the form shows after a reset.
func DefaultInput() SubmitApplicationInput {
	return SubmitApplicationInput{Phone: DefaultPhonePrefix}
}

type SubmitApplicationOutput struct {
	StorageID      string `json:"storageId"`
	RelayDelivered bool   `json:"relayDelivered"`
	Redirect       string `json:"redirect"`
}

// ForwardApplicationInput is the body accepted by the relay endpoint.
type ForwardApplicationInput struct {
	FullName  string `json:"fullName"`
	BirthDate string `json:"birthDate"`
	Phone     string `json:"phone"`
}

// ApplicationNotice is the message handed to the messaging channel.
type ApplicationNotice struct {
	FullName   string
	BirthDate  string
	Phone      string
	ReceivedAt time.Time
}

type IncomeEstimateInput struct {
	Hours   int  `json:"hours"`
	Days    int  `json:"days"`
	Vehicle bool `json:"vehicle"`
}

type IncomeEstimate struct {
	HourlyRate int `json:"hourlyRate"`
	Daily      int `json:"daily"`
	Weekly     int `json:"weekly"`
	Monthly    int `json:"monthly"`
}
