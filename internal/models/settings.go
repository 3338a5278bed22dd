package models

// CompanyDetails is the shop's own letterhead and tax identity
type CompanyDetails struct {
	CompanyName       string `json:"companyName" validate:"required"`
	Address           string `json:"address"`
	GSTIN             string `json:"gstin"`
	State             string `json:"state" validate:"required"`
	PostalCode        string `json:"postalCode"`
	Phone             string `json:"phone"`
	Email             string `json:"email" validate:"omitempty,email"`
	LogoBase64        string `json:"logoBase64,omitempty"`
	LogoURL           string `json:"logoUrl,omitempty"`
	BankAccountName   string `json:"bankAccountName,omitempty"`
	BankAccountNumber string `json:"bankAccountNumber,omitempty"`
	BankIFSC          string `json:"bankIFSC,omitempty"`
	BankName          string `json:"bankName,omitempty"`
	BankBranch        string `json:"bankBranch,omitempty"`
	HSNCode           string `json:"hsnCode"`
}

// TermsTemplate is a reusable block of terms printed on documents
type TermsTemplate struct {
	ID        int64  `json:"id"`
	Name      string `json:"name" validate:"required"`
	Content   string `json:"content"`
	IsDefault bool   `json:"isDefault"`
	CreatedAt string `json:"createdAt"`
}
