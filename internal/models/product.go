package models

import "time"

// TextAlign enumerates the supported description alignments.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// InquiryType enumerates the supported inquiry button kinds.
type InquiryType string

const (
	InquiryLink     InquiryType = "link"
	InquiryPhone    InquiryType = "phone"
	InquiryWhatsApp InquiryType = "whatsapp"
	InquiryEmail    InquiryType = "email"
)

// ValidInquiryType reports whether t is one of the supported inquiry kinds.
func ValidInquiryType(t InquiryType) bool {
	switch t {
	case InquiryLink, InquiryPhone, InquiryWhatsApp, InquiryEmail:
		return true
	}
	return false
}

// Product represents one product/service entry shown on a card.
// Fields are tagged for both DB scanning and JSON serialization.
type Product struct {
	ID           string    `db:"id" json:"id"`
	CardID       string    `db:"card_id" json:"cardId"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	Price        string    `db:"price" json:"price,omitempty"`
	Category     string    `db:"category" json:"category,omitempty"`
	TextAlign    TextAlign `db:"text_align" json:"textAlign"`
	DisplayOrder int       `db:"display_order" json:"displayOrder"`
	IsFeatured   bool      `db:"is_featured" json:"isFeatured"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`

	// Child collections, loaded separately and replaced wholesale on save.
	Images    []ProductImage   `db:"-" json:"images"`
	Inquiries []ProductInquiry `db:"-" json:"inquiries"`
}

// ProductImage is a reference to an externally hosted image for a product.
type ProductImage struct {
	ID           string `db:"id" json:"id"`
	ProductID    string `db:"product_id" json:"-"`
	ImageURL     string `db:"image_url" json:"imageUrl"`
	AltText      string `db:"alt_text" json:"altText,omitempty"`
	DisplayOrder int    `db:"display_order" json:"displayOrder"`
	IsActive     bool   `db:"is_active" json:"isActive"`
}

// ProductInquiry is an action button offering a way to contact about a product.
// The expected shape of ContactValue depends on Type (URL, phone number, email);
// it is stored as-is and not validated here.
type ProductInquiry struct {
	ID           string      `db:"id" json:"id"`
	ProductID    string      `db:"product_id" json:"-"`
	Type         InquiryType `db:"inquiry_type" json:"inquiryType"`
	ContactValue string      `db:"contact_value" json:"contactValue"`
	ButtonText   string      `db:"button_text" json:"buttonText"`
	IsActive     bool        `db:"is_active" json:"isActive"`
}
