package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Step is a page of the checkout form.
type Step int

const (
	StepShippingInfo Step = iota
	StepDeliveryMethod
	StepPayment
)

func (s Step) String() string {
	switch s {
	case StepShippingInfo:
		return "shipping_info"
	case StepDeliveryMethod:
		return "delivery_method"
	case StepPayment:
		return "payment"
	}
	return "unknown"
}

// addressOptionalCountries are delivered by hand-off with the courier; no
// street address is needed and cash on delivery is accepted.
var addressOptionalCountries = map[string]bool{
	"SN": true, "CI": true, "ML": true, "BF": true,
	"BJ": true, "TG": true, "NE": true, "GW": true,
}

// AddressOptional reports whether country is in the hand-off delivery zone.
func AddressOptional(country string) bool {
	return addressOptionalCountries[strings.ToUpper(country)]
}

// PaymentInfo is the last step of the checkout form.
type PaymentInfo struct {
	Method     string `json:"method"`
	CardHolder string `json:"card_holder,omitempty"`
	CardNumber string `json:"card_number,omitempty"`
	CardExpiry string `json:"card_expiry,omitempty"` // MM/YY
	CardCVC    string `json:"card_cvc,omitempty"`
}

// Last4 returns the last four digits of the card number.
func (p PaymentInfo) Last4() string {
	n := digits(p.CardNumber)
	if len(n) < 4 {
		return ""
	}
	return n[len(n)-4:]
}

// Wizard walks the three checkout steps. Moving forward out of a step
// validates it; moving back never does.
type Wizard struct {
	step             Step
	Shipping         models.ShippingAddress
	ShippingOptionID primitive.ObjectID
	Payment          PaymentInfo
	now              func() time.Time
}

func NewWizard() *Wizard {
	return &Wizard{step: StepShippingInfo, now: time.Now}
}

func (w *Wizard) Step() Step { return w.step }

// Next validates the current step and advances. It returns
// ValidationErrors and stays on the step when validation fails.
func (w *Wizard) Next() error {
	switch w.step {
	case StepShippingInfo:
		if err := ValidateShipping(w.Shipping); err != nil {
			return err
		}
		w.step = StepDeliveryMethod
	case StepDeliveryMethod:
		w.step = StepPayment
	}
	return nil
}

func (w *Wizard) Back() {
	if w.step > StepShippingInfo {
		w.step--
	}
}

// Complete validates the payment step. It is only meaningful on StepPayment.
func (w *Wizard) Complete() error {
	if w.step != StepPayment {
		return ValidationErrors{"step": "checkout is on step " + w.step.String()}
	}
	return ValidatePayment(w.Payment, w.Shipping.Country, w.now())
}

// ValidateShipping checks the contact and address fields.
func ValidateShipping(a models.ShippingAddress) error {
	errs := ValidationErrors{}
	if err := Validate.Struct(a); err != nil {
		if fe, ok := FieldErrors(err).(ValidationErrors); ok {
			errs = fe
		} else {
			return err
		}
	}
	if strings.TrimSpace(a.Address) == "" && !AddressOptional(a.Country) {
		errs["address"] = "is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

var expiryRe = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)

// ValidatePayment checks the payment method and, for cards only, the card
// fields.
func ValidatePayment(p PaymentInfo, country string, now time.Time) error {
	switch p.Method {
	case models.PaymentMethodCard:
	case models.PaymentMethodCashOnDelivery:
		if !AddressOptional(country) {
			return ValidationErrors{"method": "cash on delivery is not available for this country"}
		}
		return nil
	default:
		return ValidationErrors{"method": "must be one of: card cash_on_delivery"}
	}

	errs := ValidationErrors{}
	if strings.TrimSpace(p.CardHolder) == "" {
		errs["card_holder"] = "is required"
	}
	if n := digits(p.CardNumber); len(n) < 13 || len(n) > 19 || len(n) != len(strings.ReplaceAll(p.CardNumber, " ", "")) {
		errs["card_number"] = "is invalid"
	}
	if m := expiryRe.FindStringSubmatch(strings.TrimSpace(p.CardExpiry)); m == nil {
		errs["card_expiry"] = "must be MM/YY"
	} else {
		month, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[2])
		// cards are valid through the last day of the expiry month
		end := time.Date(2000+year, time.Month(month)+1, 1, 0, 0, 0, 0, time.UTC)
		if !now.Before(end) {
			errs["card_expiry"] = "card has expired"
		}
	}
	if c := digits(p.CardCVC); len(c) < 3 || len(c) > 4 || len(c) != len(p.CardCVC) {
		errs["card_cvc"] = "is invalid"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
