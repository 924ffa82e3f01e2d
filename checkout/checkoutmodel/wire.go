package checkoutmodel

// Wire types of the Reevit REST API (snake_case JSON).

type IntentPolicy struct {
	Prefer               []string `json:"prefer,omitempty"`
	AllowedProviders     []string `json:"allowed_providers,omitempty"`
	MaxAmount            int64    `json:"max_amount,omitempty"`
	BlockedBins          []string `json:"blocked_bins,omitempty"`
	AllowedBins          []string `json:"allowed_bins,omitempty"`
	VelocityMaxPerMinute int      `json:"velocity_max_per_minute,omitempty"`
}

type CreatePaymentIntentRequest struct {
	Amount          int64          `json:"amount"`
	Currency        string         `json:"currency"`
	Method          string         `json:"method,omitempty"`
	Country         string         `json:"country"`
	CustomerID      string         `json:"customer_id,omitempty"`
	Reference       string         `json:"reference,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	Description     string         `json:"description,omitempty"`
	PaymentLinkCode string         `json:"payment_link_code,omitempty"`
	Policy          *IntentPolicy  `json:"policy,omitempty"`
}

type AvailablePSP struct {
	Provider  string   `json:"provider"`
	Name      string   `json:"name"`
	Methods   []string `json:"methods"`
	Countries []string `json:"countries,omitempty"`
}

type PaymentIntentResponse struct {
	ID             string         `json:"id"`
	OrgID          string         `json:"org_id,omitempty"`
	ConnectionID   string         `json:"connection_id"`
	Provider       string         `json:"provider"`
	Status         string         `json:"status"`
	ClientSecret   string         `json:"client_secret"`
	PSPPublicKey   string         `json:"psp_public_key"`
	PSPCredentials map[string]any `json:"psp_credentials,omitempty"`
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	FeeAmount      int64          `json:"fee_amount"`
	FeeCurrency    string         `json:"fee_currency"`
	NetAmount      int64          `json:"net_amount"`
	Reference      string         `json:"reference,omitempty"`
	AvailablePSPs  []AvailablePSP `json:"available_psps,omitempty"`
	Branding       *Theme         `json:"branding,omitempty"`
}

// ToPaymentIntent converts the wire response into the shape the checkout
// state machine works with. methods is the merchant's configured method list;
// when empty all methods offered by the available PSPs are used.
func (r PaymentIntentResponse) ToPaymentIntent(methods []PaymentMethod) PaymentIntent {
	providers := make([]ProviderOption, 0, len(r.AvailablePSPs))
	offered := []PaymentMethod{}
	seen := map[PaymentMethod]bool{}
	for _, psp := range r.AvailablePSPs {
		option := ProviderOption{
			Provider:  psp.Provider,
			Name:      psp.Name,
			Countries: psp.Countries,
		}
		for _, m := range psp.Methods {
			method := PaymentMethod(m)
			option.Methods = append(option.Methods, method)
			if !seen[method] {
				seen[method] = true
				offered = append(offered, method)
			}
		}
		providers = append(providers, option)
	}

	available := methods
	if len(available) == 0 {
		available = offered
	}

	return PaymentIntent{
		ID:                 r.ID,
		ClientSecret:       r.ClientSecret,
		PSPPublicKey:       r.PSPPublicKey,
		PSPCredentials:     r.PSPCredentials,
		Amount:             r.Amount,
		Currency:           r.Currency,
		Status:             r.Status,
		RecommendedPSP:     PSPType(r.Provider),
		AvailableMethods:   available,
		Reference:          r.Reference,
		OrgID:              r.OrgID,
		ConnectionID:       r.ConnectionID,
		Provider:           r.Provider,
		FeeAmount:          r.FeeAmount,
		FeeCurrency:        r.FeeCurrency,
		NetAmount:          r.NetAmount,
		AvailableProviders: providers,
		Branding:           r.Branding,
	}
}

type PaymentDetailResponse struct {
	ID                string         `json:"id"`
	ConnectionID      string         `json:"connection_id"`
	Provider          string         `json:"provider"`
	Method            string         `json:"method"`
	Status            string         `json:"status"`
	Amount            int64          `json:"amount"`
	Currency          string         `json:"currency"`
	FeeAmount         int64          `json:"fee_amount"`
	FeeCurrency       string         `json:"fee_currency"`
	NetAmount         int64          `json:"net_amount"`
	CustomerID        string         `json:"customer_id,omitempty"`
	ClientSecret      string         `json:"client_secret"`
	ProviderRefID     string         `json:"provider_ref_id,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedAt         string         `json:"created_at"`
	UpdatedAt         string         `json:"updated_at"`
	Source            PaymentSource  `json:"source,omitempty"`
	SourceID          string         `json:"source_id,omitempty"`
	SourceDescription string         `json:"source_description,omitempty"`
}

type HubtelSessionResponse struct {
	Token            string `json:"token"`
	MerchantAccount  any    `json:"merchantAccount"`
	BasicAuth        string `json:"basicAuth,omitempty"`
	ExpiresInSeconds int    `json:"expiresInSeconds"`
	ExpiresAt        int64  `json:"expiresAt"`
}

type APIErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}
