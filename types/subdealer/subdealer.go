package subdealer

// FetchGSTRequest is the body of POST /subdealer/fetch-gst
type FetchGSTRequest struct {
	GSTNumber string `json:"gstNumber"`
}

// GenerateOTPRequest is the body of POST /subdealer/generate-otp
type GenerateOTPRequest struct {
	Phone string `json:"phone"`
}

// VerifyOTPRequest is the body of POST /subdealer/verify-otp
type VerifyOTPRequest struct {
	Phone      string     `json:"phone"`
	OTP        string     `json:"otp"`
	GSTDetails GstDetails `json:"gstDetails"`
}

// GstDetails is the internal shape of a GST registry record.
type GstDetails struct {
	GSTNumber        string `json:"gstNumber"`
	LegalName        string `json:"legalName"`
	TradeName        string `json:"tradeName"`
	AddressLine1     string `json:"addressLine1"`
	AddressLine2     string `json:"addressLine2"`
	City             string `json:"city"`
	District         string `json:"district"`
	State            string `json:"state"`
	StateCode        string `json:"stateCode"`
	Pincode          string `json:"pincode"`
	PAN              string `json:"pan"`
	RegistrationDate string `json:"registrationDate"`
	BusinessType     string `json:"businessType"`
	Status           string `json:"status"`
	Jurisdiction     string `json:"jurisdiction"`
	IsMock           bool   `json:"isMock,omitempty"`
}

// RegistrationResult is returned after a successful verification.
type RegistrationResult struct {
	ID        uint   `json:"id"`
	Phone     string `json:"phone"`
	GSTNumber string `json:"gstNumber"`
	LegalName string `json:"legalName"`
}

// OTPStatus describes the latest challenge for a phone.
type OTPStatus struct {
	Phone             string `json:"phone"`
	State             string `json:"state"`
	RemainingAttempts int    `json:"remainingAttempts"`
	ExpiresAt         string `json:"expiresAt,omitempty"`
}
