package site

// Plan is one pricing tier on the marketing site.
type Plan struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MonthlyPrice int      `json:"monthlyPrice"`
	YearlyPrice  int      `json:"yearlyPrice"`
	Credits      int      `json:"credits"`
	Features     []string `json:"features"`
	Highlighted  bool     `json:"highlighted"`
	CTA          string   `json:"cta"`
}

// CreditCost is what one enrichment action costs in credits.
type CreditCost struct {
	Action  string `json:"action"`
	Credits int    `json:"credits"`
}

type Pricing struct {
	Currency    string       `json:"currency"`
	Plans       []Plan       `json:"plans"`
	CreditCosts []CreditCost `json:"creditCosts"`
}

var pricing = Pricing{
	Currency: "USD",
	Plans: []Plan{
		{
			ID: "starter", Name: "Starter", MonthlyPrice: 49, YearlyPrice: 470, Credits: 1000,
			Features: []string{"Email finder", "Email verification", "CSV export", "1 seat"},
			CTA:      "Start free trial",
		},
		{
			ID: "growth", Name: "Growth", MonthlyPrice: 149, YearlyPrice: 1430, Credits: 5000,
			Features:    []string{"Everything in Starter", "Phone numbers", "CRM sync", "5 seats", "API access"},
			Highlighted: true,
			CTA:         "Start free trial",
		},
		{
			ID: "scale", Name: "Scale", MonthlyPrice: 399, YearlyPrice: 3830, Credits: 20000,
			Features: []string{"Everything in Growth", "Company enrichment", "Webhooks", "Unlimited seats", "Priority support"},
			CTA:      "Start free trial",
		},
		{
			ID: "enterprise", Name: "Enterprise",
			Features: []string{"Custom credit volume", "SSO", "Dedicated success manager", "Custom data retention"},
			CTA:      "Talk to sales",
		},
	},
	CreditCosts: []CreditCost{
		{Action: "Email verification", Credits: 1},
		{Action: "Email finder", Credits: 1},
		{Action: "Company enrichment", Credits: 2},
		{Action: "Person enrichment", Credits: 3},
		{Action: "Mobile phone number", Credits: 10},
	},
}

// Landing is the data behind the home page.
type Landing struct {
	Headline    string        `json:"headline"`
	Subheadline string        `json:"subheadline"`
	Stats       []LandingStat `json:"stats"`
	LatestPosts []PostCard    `json:"latestPosts"`
}

type LandingStat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

var (
	headline    = "Enrich every lead before it hits your CRM"
	subheadline = "Verified emails, direct dials and firmographics from one API, priced per result."
	stats       = []LandingStat{
		{Label: "Contacts enriched monthly", Value: "40M+"},
		{Label: "Email accuracy", Value: "97%"},
		{Label: "Median API latency", Value: "180ms"},
	}
)
