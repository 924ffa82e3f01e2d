package checkoutmodel

import (
	"fmt"
)

type PaymentMethod string

const (
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodMobileMoney  PaymentMethod = "mobile_money"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodApplePay     PaymentMethod = "apple_pay"
	PaymentMethodGooglePay    PaymentMethod = "google_pay"
)

type MobileMoneyNetwork string

const (
	NetworkMTN        MobileMoneyNetwork = "mtn"
	NetworkTelecel    MobileMoneyNetwork = "telecel"
	NetworkAirtelTigo MobileMoneyNetwork = "airteltigo"
)

type PSPType string

const (
	PSPPaystack    PSPType = "paystack"
	PSPHubtel      PSPType = "hubtel"
	PSPFlutterwave PSPType = "flutterwave"
	PSPStripe      PSPType = "stripe"
	PSPMonnify     PSPType = "monnify"
	PSPMpesa       PSPType = "mpesa"
)

// PaymentSource indicates where a payment originated from.
type PaymentSource string

const (
	SourcePaymentLink  PaymentSource = "payment_link"
	SourceAPI          PaymentSource = "api"
	SourceSubscription PaymentSource = "subscription"
)

// Config describes one checkout as configured by the integrating merchant.
// Amount is in the smallest currency unit (e.g. pesewas for GHS).
type Config struct {
	PublicKey       string          `json:"publicKey,omitempty"`
	Amount          int64           `json:"amount" validate:"gt=0"`
	Currency        string          `json:"currency" validate:"required,len=3,alpha"`
	Email           string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone           string          `json:"phone,omitempty"`
	CustomerName    string          `json:"customerName,omitempty"`
	Reference       string          `json:"reference,omitempty"`
	IdempotencyKey  string          `json:"idempotencyKey,omitempty"`
	Metadata        map[string]any  `json:"metadata,omitempty"`
	CustomFields    map[string]any  `json:"customFields,omitempty"`
	PaymentLinkCode string          `json:"paymentLinkCode,omitempty"`
	PaymentMethods  []PaymentMethod `json:"paymentMethods,omitempty" validate:"dive,oneof=card mobile_money bank_transfer apple_pay google_pay"`
}

type ProviderOption struct {
	Provider  string          `json:"provider"`
	Name      string          `json:"name"`
	Methods   []PaymentMethod `json:"methods"`
	Countries []string        `json:"countries,omitempty"`
}

// PaymentIntent is the backend-issued record. It is passed through as is.
type PaymentIntent struct {
	ID                 string           `json:"id"`
	ClientSecret       string           `json:"clientSecret"`
	PSPPublicKey       string           `json:"pspPublicKey,omitempty"`
	PSPCredentials     map[string]any   `json:"pspCredentials,omitempty"`
	Amount             int64            `json:"amount"`
	Currency           string           `json:"currency"`
	Status             string           `json:"status"`
	RecommendedPSP     PSPType          `json:"recommendedPsp"`
	AvailableMethods   []PaymentMethod  `json:"availableMethods"`
	Reference          string           `json:"reference,omitempty"`
	OrgID              string           `json:"orgId,omitempty"`
	ConnectionID       string           `json:"connectionId,omitempty"`
	Provider           string           `json:"provider,omitempty"`
	FeeAmount          int64            `json:"feeAmount,omitempty"`
	FeeCurrency        string           `json:"feeCurrency,omitempty"`
	NetAmount          int64            `json:"netAmount,omitempty"`
	Metadata           map[string]any   `json:"metadata,omitempty"`
	AvailableProviders []ProviderOption `json:"availableProviders,omitempty"`
	Branding           *Theme           `json:"branding,omitempty"`
}

type PaymentResult struct {
	PaymentID         string         `json:"paymentId"`
	Reference         string         `json:"reference"`
	Amount            int64          `json:"amount"`
	Currency          string         `json:"currency"`
	PaymentMethod     PaymentMethod  `json:"paymentMethod"`
	PSP               string         `json:"psp"`
	PSPReference      string         `json:"pspReference"`
	Status            string         `json:"status"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	Source            PaymentSource  `json:"source,omitempty"`
	SourceID          string         `json:"sourceId,omitempty"`
	SourceDescription string         `json:"sourceDescription,omitempty"`
}

// PaymentError is carried as data through the checkout state machine. It also
// satisfies error so it can travel through ordinary Go error paths.
type PaymentError struct {
	Code        string         `json:"code"`
	Message     string         `json:"message"`
	Recoverable bool           `json:"recoverable,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
}

func (e *PaymentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type Theme struct {
	PrimaryColor             string `json:"primaryColor,omitempty"`
	PrimaryForegroundColor   string `json:"primaryForegroundColor,omitempty"`
	ButtonBackgroundColor    string `json:"buttonBackgroundColor,omitempty"`
	ButtonTextColor          string `json:"buttonTextColor,omitempty"`
	BackgroundColor          string `json:"backgroundColor,omitempty"`
	BorderColor              string `json:"borderColor,omitempty"`
	SurfaceColor             string `json:"surfaceColor,omitempty"`
	TextColor                string `json:"textColor,omitempty"`
	MutedTextColor           string `json:"mutedTextColor,omitempty"`
	BorderRadius             string `json:"borderRadius,omitempty"`
	FontFamily               string `json:"fontFamily,omitempty"`
	DarkMode                 bool   `json:"darkMode,omitempty"`
	LogoURL                  string `json:"logoUrl,omitempty"`
	CompanyName              string `json:"companyName,omitempty"`
	PSPSelectorBgColor       string `json:"pspSelectorBgColor,omitempty"`
	PSPSelectorTextColor     string `json:"pspSelectorTextColor,omitempty"`
	PSPSelectorBorderColor   string `json:"pspSelectorBorderColor,omitempty"`
	PSPSelectorUseBorder     bool   `json:"pspSelectorUseBorder,omitempty"`
	SelectedBackgroundColor  string `json:"selectedBackgroundColor,omitempty"`
	SelectedTextColor        string `json:"selectedTextColor,omitempty"`
	SelectedDescriptionColor string `json:"selectedDescriptionColor,omitempty"`
	SelectedBorderColor      string `json:"selectedBorderColor,omitempty"`
}
