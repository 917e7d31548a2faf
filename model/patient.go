package model

import "time"

// PatientCard is the loyalty/discount card record tied to one patient.
// PatientID is the business key all upsert operations are keyed on. CardNo is
// assigned once when the record is first created and never changes afterwards.
type PatientCard struct {
	ID          uint      `gorm:"primaryKey" json:"-" bson:"-"`
	CardNo      string    `gorm:"size:32" json:"cardNo" bson:"cardNo"`
	PatientID   string    `gorm:"size:64;uniqueIndex" json:"patientId" bson:"patientId"`
	PatientName string    `gorm:"size:128" json:"patientName" bson:"patientName"`
	PhoneNumber string    `gorm:"size:16" json:"phoneNumber" bson:"phoneNumber"`
	Address     string    `gorm:"size:128" json:"address,omitempty" bson:"address,omitempty"`
	Discount    int       `json:"discount" bson:"discount"`
	ValidTill   string    `gorm:"size:10" json:"validTill" bson:"validTill"`
	CreatedAt   time.Time `json:"-" bson:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"-" bson:"updatedAt,omitempty"`
}

// PatientPatch is a partial PatientCard used by create and update requests.
// A nil pointer means the field was absent from the request and the stored
// value must be preserved; a present empty string explicitly clears an
// optional field. CardNo is deliberately not part of the patch.
type PatientPatch struct {
	PatientID   string  `json:"patientId"`
	PatientName *string `json:"patientName"`
	PhoneNumber *string `json:"phoneNumber"`
	Address     *string `json:"address"`
	Discount    *int    `json:"discount"`
	ValidTill   *string `json:"validTill"`
}

// Apply shallow-merges the provided fields of the patch over the card.
func (p PatientPatch) Apply(card *PatientCard) {
	if p.PatientName != nil {
		card.PatientName = *p.PatientName
	}
	if p.PhoneNumber != nil {
		card.PhoneNumber = *p.PhoneNumber
	}
	if p.Address != nil {
		card.Address = *p.Address
	}
	if p.Discount != nil {
		card.Discount = *p.Discount
	}
	if p.ValidTill != nil {
		card.ValidTill = *p.ValidTill
	}
}

// SetFields returns the provided fields keyed by their wire names, suitable
// for a document-level $set update. The business key is never included.
func (p PatientPatch) SetFields() map[string]interface{} {
	set := map[string]interface{}{}
	if p.PatientName != nil {
		set["patientName"] = *p.PatientName
	}
	if p.PhoneNumber != nil {
		set["phoneNumber"] = *p.PhoneNumber
	}
	if p.Address != nil {
		set["address"] = *p.Address
	}
	if p.Discount != nil {
		set["discount"] = *p.Discount
	}
	if p.ValidTill != nil {
		set["validTill"] = *p.ValidTill
	}
	return set
}
