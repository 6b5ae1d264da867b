package sms

import (
	"context"
	"fmt"
	"strings"

	"marketing-crm/logger"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const countryCode = "+91"

// TwilioSender delivers OTP codes as SMS through Twilio.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

// SendOTP sends code to a 10 digit local phone number.
func (t *TwilioSender) SendOTP(ctx context.Context, phone, code string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(ToE164(phone))
	params.SetBody(OTPMessage(code))

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		msg := ""
		if resp.ErrorMessage != nil {
			msg = *resp.ErrorMessage
		}
		return fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, msg)
	}

	if resp.Sid != nil {
		logger.Debug("SMS queued with SID " + *resp.Sid)
	}
	return nil
}

// ToE164 prefixes the national dialling code.
func ToE164(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	return countryCode + phone
}

func OTPMessage(code string) string {
	return fmt.Sprintf("Your subdealer registration code is %s. It expires in 10 minutes. Do not share it with anyone.", code)
}
