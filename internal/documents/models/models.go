package models

import (
	"net/url"
	"strings"
	"time"

	id "peoplehub/pkg/domain"
	dErrors "peoplehub/pkg/domain-errors"
)

type Category string

const (
	CategoryCompany     Category = "company"
	CategoryContract    Category = "contract"
	CategoryPayslip     Category = "payslip"
	CategoryCertificate Category = "certificate"
	CategoryPersonal    Category = "personal"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryCompany, CategoryContract, CategoryPayslip, CategoryCertificate, CategoryPersonal:
		return true
	}
	return false
}

// Document is metadata about a file kept elsewhere. Company documents are
// owned by the staff member who published them.
type Document struct {
	ID        id.DocumentID `json:"id"`
	OwnerID   id.AccountID  `json:"owner_id"`
	Category  Category      `json:"category"`
	Title     string        `json:"title"`
	URL       string        `json:"url,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// CreateDocumentRequest files a document. Staff may set OwnerID to file on
// behalf of another account.
type CreateDocumentRequest struct {
	OwnerID  *id.AccountID `json:"owner_id,omitempty"`
	Category Category      `json:"category"`
	Title    string        `json:"title"`
	URL      string        `json:"url,omitempty"`
}

func (r *CreateDocumentRequest) Normalize() {
	r.Category = Category(strings.ToLower(strings.TrimSpace(string(r.Category))))
	r.Title = strings.TrimSpace(r.Title)
	r.URL = strings.TrimSpace(r.URL)
}

func (r *CreateDocumentRequest) Validate() error {
	if !r.Category.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "category must be one of company, contract, payslip, certificate, personal")
	}
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if r.URL != "" {
		u, err := url.Parse(r.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return dErrors.New(dErrors.CodeValidation, "url must be an absolute http(s) URL")
		}
	}
	return nil
}
