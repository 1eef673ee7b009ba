package models

// Persona is a fixed role-play identity. Personas are defined at process
// start, chosen once per engagement and never changed mid-run.
type Persona struct {
	ID          string `json:"id"`
	Instruction string `json:"instruction"`
}

// IndicatorKind categorizes an archived indicator.
type IndicatorKind string

const (
	IndicatorUPIID        IndicatorKind = "upi_id"
	IndicatorBankAccount  IndicatorKind = "bank_account"
	IndicatorPhishingLink IndicatorKind = "phishing_link"
)
